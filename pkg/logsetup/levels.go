package logsetup

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits below zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

// Numeric levels accepted in Config.Level.
const (
	LevelError uint8 = iota + 1
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ZapLevel maps a numeric level to a zap level. Unknown values map to debug.
func ZapLevel(level uint8) zapcore.Level {
	switch level {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelTrace:
		return TraceLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelFromString maps a level name to its numeric level. Names match in
// all-lower or all-upper case; anything else is debug.
func LevelFromString(name string) uint8 {
	switch name {
	case "trace", "TRACE":
		return LevelTrace
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelDebug
	}
}

func levelName(l zapcore.Level) string {
	if l == TraceLevel {
		return "TRACE"
	}
	return strings.ToUpper(l.String())
}
