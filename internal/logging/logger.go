package logging

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"sync"
)

// Logger defines a minimal, printf-style logging contract.
//
// Components depend on this interface so tests can inject a no-op or
// recording logger without touching process-wide state.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil or wraps a nil pointer receiver.
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	val := reflect.ValueOf(logger)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}

var (
	stdOnce sync.Once
	stdLog  *log.Logger
	stdMu   sync.Mutex
	level   = INFO
)

func std() *log.Logger {
	stdOnce.Do(func() {
		stdLog = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	})
	return stdLog
}

// SetLevel adjusts the minimum severity emitted by component loggers.
func SetLevel(l LogLevel) {
	stdMu.Lock()
	defer stdMu.Unlock()
	level = l
}

func minLevel() LogLevel {
	stdMu.Lock()
	defer stdMu.Unlock()
	return level
}

type componentLogger struct {
	component string
}

// NewComponentLogger returns a stderr logger scoped to a component name.
func NewComponentLogger(component string) Logger {
	return &componentLogger{component: component}
}

func (l *componentLogger) emit(lvl LogLevel, format string, args ...any) {
	if lvl < minLevel() {
		return
	}
	std().Printf("[%s] [%s] %s", lvl, l.component, fmt.Sprintf(format, args...))
}

func (l *componentLogger) Debug(format string, args ...any) { l.emit(DEBUG, format, args...) }
func (l *componentLogger) Info(format string, args ...any)  { l.emit(INFO, format, args...) }
func (l *componentLogger) Warn(format string, args ...any)  { l.emit(WARN, format, args...) }
func (l *componentLogger) Error(format string, args ...any) { l.emit(ERROR, format, args...) }
