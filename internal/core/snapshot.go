package core

import "gopkg.in/yaml.v3"

// Snapshot is a named, point-in-time capture of a set of persistent CVars'
// string values, distinct from the canonical `set`/`alias` config file
// §4.2/§4.4.7 describe: a config file is the single source of truth loaded
// at startup, while a snapshot is one of several named profiles an
// embedder may switch between (`cfg_cvar.cpp`'s bulk export routines, a
// feature the distilled spec dropped — see SPEC_FULL.md).
type Snapshot struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

// SaveSnapshot captures every persistent CVar's current string value into
// a named YAML document, without touching Modified (unlike SaveConfigLines,
// a snapshot is a side read, not the canonical persistence path).
func (r *CVarRegistry) SaveSnapshot(name string) ([]byte, error) {
	snap := Snapshot{Name: name, Values: make(map[string]string)}
	r.Enumerate(func(cv *CVar) bool {
		if cv.flags&FlagPersistent != 0 {
			snap.Values[cv.name] = cv.AsString(r.boolStrings)
		}
		return true
	})
	return yaml.Marshal(snap)
}

// LoadSnapshot applies a previously saved snapshot's values through the
// privileged internal setter, the same write path config-file replay
// uses, so restoring a snapshot does not mark variables Modified.
func (r *CVarRegistry) LoadSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	for name, value := range snap.Values {
		r.SetInternal(name, value)
	}
	return &snap, nil
}
