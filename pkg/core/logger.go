package core

import (
	"fmt"
	"log"
	"os"
)

// Logger is the logging seam threaded explicitly through every package that
// needs to report progress or warnings. There is no package-level logger;
// callers construct one and pass it down.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StdLogger is the default Logger, writing timestamped lines to an
// underlying *log.Logger (stderr by default).
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger creates a Logger writing to os.Stderr.
func NewStdLogger() *StdLogger {
	return &StdLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *StdLogger) Infof(format string, args ...any) {
	s.l.Print("INFO  " + fmt.Sprintf(format, args...))
}

func (s *StdLogger) Warnf(format string, args ...any) {
	s.l.Print("WARN  " + fmt.Sprintf(format, args...))
}

func (s *StdLogger) Errorf(format string, args ...any) {
	s.l.Print("ERROR " + fmt.Sprintf(format, args...))
}

// NopLogger discards everything, used in tests.
type NopLogger struct{}

func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
