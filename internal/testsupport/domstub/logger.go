package domstub

import (
	"fmt"
	"strings"
	"sync"

	"page-pilot/internal/application/port/output"
)

// Logger is a LoggerPort that records entries for assertions.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (l *Logger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }

func (l *Logger) WithField(string, any) output.LoggerPort     { return l }
func (l *Logger) WithFields(map[string]any) output.LoggerPort { return l }
func (l *Logger) Close() error                                { return nil }

// Contains reports whether any recorded entry contains substr.
func (l *Logger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
