package logger

import "log/slog"

//go:generate enumer -type=Level -trimprefix=Level -transform=upper -json -text -yaml
//go:generate go run github.com/smykla-skalski/timemap/tools/enumerfix level_enumer.go

// Level represents the log level.
type Level int

const (
	// LevelDebug logs everything, including every instrumented callable.
	LevelDebug Level = iota

	// LevelInfo logs lifecycle events.
	LevelInfo

	// LevelError logs failures only.
	LevelError
)

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromFlags determines the log level from debug and trace flags.
func LevelFromFlags(debug, trace bool) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelError
	}
}
