// Package logging carries the component logger used across the overlay and
// its zap-backed implementation.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger tags every line with the component that wrote it.
type Logger interface {
	Debugf(component string, format string, args ...interface{})
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Debugf(component, format string, args ...interface{}) {}
func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// WriterLogger writes plain lines to w. It is the fallback when the log file
// cannot be opened.
type WriterLogger struct {
	mu    sync.Mutex
	w     io.Writer
	debug bool
}

func NewWriterLogger(w io.Writer, debug bool) *WriterLogger {
	return &WriterLogger{w: w, debug: debug}
}

func (l *WriterLogger) Debugf(component string, format string, args ...interface{}) {
	if l.debug {
		l.write("DEBUG", component, format, args...)
	}
}

func (l *WriterLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}

func (l *WriterLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l *WriterLogger) write(level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
