package mock

import (
	"fmt"
	"strings"
	"sync"
)

// Level of a recorded message
type Level string

const (
	LevelInfo   Level = "info"
	LevelNotice Level = "notice"
	LevelWarn   Level = "warn"
	LevelError  Level = "error"
	LevelDebug  Level = "debug"
)

// Entry is a single recorded message
type Entry struct {
	Level   Level
	Message string
}

// Recorder is an output.Output that keeps every message for assertions
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level Level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Infof(format string, args ...interface{}) {
	r.record(LevelInfo, format, args...)
}

func (r *Recorder) Noticef(format string, args ...interface{}) {
	r.record(LevelNotice, format, args...)
}

func (r *Recorder) Warnf(format string, args ...interface{}) {
	r.record(LevelWarn, format, args...)
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.record(LevelError, format, args...)
}

func (r *Recorder) Debugf(format string, args ...interface{}) {
	r.record(LevelDebug, format, args...)
}

// Messages returns the messages recorded at level
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []string
	for _, e := range r.Entries {
		if e.Level == level {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

// Contains reports whether any message at level contains substr
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, m := range r.Messages(level) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
