package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a Logger at the given level. format is "text" or "json".
func New(level LogLevel, format string) *Logger {
	out := logrus.New()
	out.SetOutput(os.Stderr)
	if format == "json" {
		out.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		out.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}
	out.SetLevel(level.logrusLevel())

	return &Logger{MinLevel: level, out: out}
}

// SetLogLevel sets the minimum log level
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.MinLevel = level
	l.backend().SetLevel(level.logrusLevel())
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backend().SetOutput(w)
}

// backend lazily creates the logrus instance so a zero Logger is usable.
// Callers must hold l.mu.
func (l *Logger) backend() *logrus.Logger {
	if l.out == nil {
		l.out = logrus.New()
		l.out.SetLevel(l.MinLevel.logrusLevel())
	}
	return l.out
}

func (l *Logger) log(level LogLevel, component, message string, args ...interface{}) {
	if level < l.MinLevel {
		return
	}

	formattedMsg := message
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(message, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := logrus.NewEntry(l.backend())
	if component != "" {
		entry = entry.WithField("component", component)
	}

	switch level {
	case LevelDebug:
		entry.Debug(formattedMsg)
	case LevelInfo:
		entry.Info(formattedMsg)
	case LevelWarn:
		entry.Warn(formattedMsg)
	default:
		entry.Error(formattedMsg)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(LevelDebug, component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(LevelInfo, component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(LevelWarn, component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
	os.Exit(1)
}
