// Package logger holds the process-wide logrus logger used by page objects, drivers and the CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger = newLogger(io.Discard)
	logFile      *os.File
	mu           sync.Mutex
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	return l
}

// Init points the global logger at the specified log file path.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger.SetOutput(f)

	return nil
}

// Close closes the log file. Later messages are discarded.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger.SetOutput(io.Discard)
}

// SetVerbose enables debug messages.
func SetVerbose(verbose bool) {
	if verbose {
		globalLogger.SetLevel(logrus.DebugLevel)
		return
	}
	globalLogger.SetLevel(logrus.InfoLevel)
}

// Logger returns the underlying logrus logger. Tests attach hooks to it.
func Logger() *logrus.Logger {
	return globalLogger
}

// WithFields returns an entry carrying structured context such as locator or page path.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return globalLogger.WithFields(fields)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	globalLogger.Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	globalLogger.Debugf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	globalLogger.Errorf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	globalLogger.Warnf(format, v...)
}

// GetWriter returns the underlying writer for use by drivers.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	return io.Discard
}
