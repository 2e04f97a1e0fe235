// internal/utils/logger.go
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// Logger wraps a logrus logger with the field-map API used across the services.
type Logger struct {
	mu    sync.Mutex
	entry *logrus.Logger
	file  *os.File
}

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stdout)
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		globalLogger = &Logger{entry: l}
	})
	return globalLogger
}

// NewLogger builds a standalone logger writing to w; tests use it to capture output.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(toLogrusLevel(level))
	l.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{entry: l}
}

// InitLogger additionally writes the global logger's output to logFile.
func InitLogger(logFile string, debug bool) error {
	logger := GetLogger()

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if logger.file != nil {
		logger.file.Close()
	}
	logger.file = file
	logger.entry.SetOutput(io.MultiWriter(os.Stdout, file))

	if debug {
		logger.entry.SetLevel(logrus.DebugLevel)
		logger.entry.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.entry.SetOutput(os.Stdout)
	err := l.file.Close()
	l.file = nil
	return err
}

// SetLogLevel sets the minimum level for logging
func (l *Logger) SetLogLevel(level LogLevel) {
	l.entry.SetLevel(toLogrusLevel(level))
}

// WithFields returns a logrus entry for call sites that log several lines with shared context.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.entry.WithFields(logrus.Fields(fields))
}

func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(message)
}

func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(message)
}

func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(message)
}

func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(message)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}


func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case DEBUG:
		return logrus.DebugLevel
	case WARNING:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
