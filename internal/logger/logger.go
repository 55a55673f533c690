package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Logger wraps the standard log.Logger with a verbose switch
type Logger struct {
	*log.Logger
	verbose atomic.Bool
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// SetVerbose toggles Debugf output.
func (l *Logger) SetVerbose(v bool) {
	l.verbose.Store(v)
}

// Debugf logs only in verbose mode.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose.Load() {
		return
	}
	l.Output(2, fmt.Sprintf(format, args...))
}

// OpenFile returns a logger appending to the named file, with microsecond
// timestamps. The caller closes the returned file.
func OpenFile(name string) (*Logger, *os.File, error) {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := NewWriter(file)
	l.SetFlags(LstdFlags | Lmicroseconds)
	return l, file, nil
}
