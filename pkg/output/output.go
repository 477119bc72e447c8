package output

import (
	"github.com/flanksource/clicky/task"
	"github.com/flanksource/commons/logger"
)

// Output is the leveled diagnostics channel the pipeline reports through
type Output interface {
	Infof(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Task reports through a clicky task
type Task struct {
	T *task.Task
}

// ForTask returns an Output writing to t, or to the global logger when t is nil
func ForTask(t *task.Task) Output {
	if t == nil {
		return Logger{}
	}
	return Task{T: t}
}

func (o Task) Infof(format string, args ...interface{})   { o.T.Infof(format, args...) }
func (o Task) Noticef(format string, args ...interface{}) { o.T.Infof(format, args...) }
func (o Task) Warnf(format string, args ...interface{})   { o.T.Warnf(format, args...) }
func (o Task) Errorf(format string, args ...interface{})  { o.T.Errorf(format, args...) }
func (o Task) Debugf(format string, args ...interface{})  { o.T.V(3).Infof(format, args...) }

// Logger reports through the flanksource/commons global logger
type Logger struct{}

func (Logger) Infof(format string, args ...interface{})   { logger.Infof(format, args...) }
func (Logger) Noticef(format string, args ...interface{}) { logger.Infof(format, args...) }
func (Logger) Warnf(format string, args ...interface{})   { logger.Warnf(format, args...) }
func (Logger) Errorf(format string, args ...interface{})  { logger.Errorf(format, args...) }
func (Logger) Debugf(format string, args ...interface{})  { logger.V(3).Infof(format, args...) }

// Discard drops every message
type Discard struct{}

func (Discard) Infof(string, ...interface{})   {}
func (Discard) Noticef(string, ...interface{}) {}
func (Discard) Warnf(string, ...interface{})   {}
func (Discard) Errorf(string, ...interface{})  {}
func (Discard) Debugf(string, ...interface{})  {}
