package core

import "testing"

func TestSaveSnapshotCapturesOnlyPersistentCVars(t *testing.T) {
	r := NewCVarRegistry(false, false, nil)
	cv, _ := r.RegisterInt("crosshair.color", "", 2, FlagPersistent, false, 0, 0)
	r.RegisterInt("frame.counter", "", 0, FlagVolatile, false, 0, 0)
	r.SetInt("crosshair.color", 5, 0)

	data, err := r.SaveSnapshot("loadout1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cv.IsModified() {
		t.Fatal("setup expectation broke: crosshair.color should be Modified before snapshot")
	}

	r2 := NewCVarRegistry(false, false, nil)
	cv2, _ := r2.RegisterInt("crosshair.color", "", 2, FlagPersistent, false, 0, 0)
	snap, err := r2.LoadSnapshot(data)
	if err != nil {
		t.Fatalf("unexpected error loading snapshot: %v", err)
	}
	if snap.Name != "loadout1" {
		t.Errorf("expected snapshot name %q, got %q", "loadout1", snap.Name)
	}
	v, _ := r2.GetInt("crosshair.color")
	if v != 5 {
		t.Errorf("expected the persisted value to round-trip, got %d", v)
	}
	if cv2.IsModified() {
		t.Error("expected LoadSnapshot to use the privileged path and not mark Modified")
	}

	if _, ok := snap.Values["frame.counter"]; ok {
		t.Error("expected a non-persistent cvar to be excluded from the snapshot")
	}
}

func TestLoadSnapshotIgnoresUnknownNames(t *testing.T) {
	r := NewCVarRegistry(false, false, nil)
	data := []byte("name: empty\nvalues:\n  ghost.setting: \"1\"\n")
	if _, err := r.LoadSnapshot(data); err != nil {
		t.Fatalf("expected LoadSnapshot to tolerate an unregistered name, got error: %v", err)
	}
	if _, ok := r.Find("ghost.setting"); ok {
		t.Error("expected LoadSnapshot not to auto-register cvars it doesn't recognize")
	}
}
