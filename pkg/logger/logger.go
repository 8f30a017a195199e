// Package logger implements leveled, optionally colored logging for the
// parser and CLI. Parsing in permissive mode reports recoverable syntax
// problems through the package-level Warn instead of failing.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// WarnLevel logs warnings and errors
	WarnLevel
	// ErrorLevel logs only errors
	ErrorLevel
	// FatalLevel logs fatal errors and exits
	FatalLevel
)

// Color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
)

var (
	defaultLogger *Logger
	once          sync.Once
)

// Logger writes leveled messages to a single output writer
type Logger struct {
	mu      sync.RWMutex
	level   Level
	colored bool
	out     *log.Logger
}

// New creates a logger writing to output at the given minimum level
func New(output io.Writer, level Level) *Logger {
	return &Logger{
		level:   level,
		colored: isTerminal(output),
		out:     log.New(output, "", log.LstdFlags),
	}
}

// Default returns the shared logger, created on first use at InfoLevel
// writing to stderr.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(os.Stderr, InfoLevel)
	})
	return defaultLogger
}

// SetLevel sets the minimum level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the logger to a different writer
func (l *Logger) SetOutput(output io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colored = isTerminal(output)
	l.out.SetOutput(output)
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	tag := "[" + levelName(level) + "] "
	if l.colored {
		tag = levelColor(level) + tag + colorReset
	}
	l.out.Println(tag + msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(DebugLevel, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(InfoLevel, format, args...)
}

// Warn logs a warning
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(WarnLevel, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(ErrorLevel, format, args...)
}

// Fatal logs a fatal error message and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.write(FatalLevel, format, args...)
	os.Exit(1)
}

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

// Info logs an informational message using the default logger
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

// Warn logs a warning using the default logger
func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}

// Fatal logs a fatal error message using the default logger and exits
func Fatal(format string, args ...interface{}) {
	Default().Fatal(format, args...)
}

// SetLevel sets the minimum level of the default logger
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetOutput redirects the default logger
func SetOutput(output io.Writer) {
	Default().SetOutput(output)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty(f.Fd())
	}
	return false
}

func levelName(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	}
	return "UNKNOWN"
}

func levelColor(level Level) string {
	switch level {
	case DebugLevel:
		return colorGray
	case InfoLevel:
		return colorBlue
	case WarnLevel:
		return colorYellow
	default:
		return colorRed
	}
}

// ParseLevel parses a string into a log level
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level: %s", s)
}
