package core

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultErrorSink writes every reported failure as a structured zerolog
// event, keyed by ErrorKind, to stderr — console-formatted when stderr
// looks like an interactive terminal, JSON otherwise (the same split
// zerolog's own `ConsoleWriter` exists for). This sink's own SetMuted maps
// onto zerolog's level filter; the registries' mute switch is the separate
// boolean flag on the mutableSink wrapper in errors.go.
type defaultErrorSink struct {
	logger zerolog.Logger
}

// newDefaultErrorSink builds the default sink, auto-detecting whether
// stderr supports the human-readable console writer.
func newDefaultErrorSink() *defaultErrorSink {
	var logger zerolog.Logger
	if stderrIsTerminal() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !stderrSupportsColor()}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return &defaultErrorSink{logger: logger}
}

func (s *defaultErrorSink) Report(kind ErrorKind, message string, context string) {
	ev := s.logger.Error().Str("kind", kind.String())
	if context != "" {
		ev = ev.Str("context", context)
	}
	ev.Msg(message)
}

// SetMuted silences or unsilences every future report from this sink
// through zerolog's level filter.
func (s *defaultErrorSink) SetMuted(muted bool) {
	if muted {
		s.logger = s.logger.Level(zerolog.Disabled)
	} else {
		s.logger = s.logger.Level(zerolog.InfoLevel)
	}
}

func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// stderrSupportsColor checks whether stderr looks like a color-capable
// terminal, honoring NO_COLOR and TERM=dumb.
func stderrSupportsColor() bool {
	if !stderrIsTerminal() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}
