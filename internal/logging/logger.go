// Package logging provides the leveled logger the binaries hand to the engine.
package logging

import (
	"io"
	"log"
	"strings"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name (case-insensitive). Unknown names fall
// back to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[LEVEL] message" lines through the standard log package.
// It satisfies life.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a logger writing to the standard logger's output.
func New(level string) *Logger {
	return &Logger{level: ParseLevel(level), out: log.Default()}
}

// NewWithWriter returns a logger writing to w, used by the terminal
// viewer which owns stderr's screen.
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{level: ParseLevel(level), out: log.New(w, "", log.LstdFlags)}
}

// Level returns the active threshold.
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) logf(level Level, prefix, format string, v ...any) {
	if level >= l.level {
		l.out.Printf(prefix+format, v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LevelDebug, "[DEBUG] ", format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LevelInfo, "[INFO] ", format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LevelWarn, "[WARN] ", format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LevelError, "[ERROR] ", format, v...) }

// Fatalf logs and exits.
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}
