// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// It wraps zerolog behind a printf-style package API so callers do not carry a logger around.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Global logger instance. Nil until Init is called; calls before that are dropped.
	defaultLogger *zerolog.Logger
)

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init initializes the default logger with the specified level and format
func Init(level string, format string) {
	InitWriter(os.Stderr, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, format string) {
	out := w
	if strings.ToLower(format) == "text" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
	defaultLogger = &l
}

// Get returns the underlying logger for components that take a zerolog.Logger.
func Get() zerolog.Logger {
	if defaultLogger == nil {
		return zerolog.Nop()
	}
	return *defaultLogger
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug().Msgf(format, args...)
	}
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info().Msgf(format, args...)
	}
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn().Msgf(format, args...)
	}
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error().Msgf(format, args...)
	}
}

// Fatal logs a message at FatalLevel and exits
func Fatal(format string, args ...interface{}) {
	if defaultLogger != nil {
		// zerolog exits the process after writing a fatal event.
		defaultLogger.Fatal().Msgf(format, args...)
	}
	fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
	os.Exit(1)
}
