// Package logger provides leveled logging for claimlens.
// It wraps the standard log package with level filtering and an optional
// one-object-per-line JSON format.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs per-filter and per-aggregate detail.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs recoverable data problems (bad cells, unknown headers).
	WarnLevel
	// ErrorLevel logs failures that stop an output from being produced.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps "debug", "info", "warn", "error" to a Level. Unknown
// strings map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging
type Logger struct {
	level  Level
	json   bool
	logger *log.Logger
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags),
}

// Init initializes the default logger with the specified level and format
// ("text" or "json"), writing to stderr.
func Init(level string, format string) {
	InitWriter(os.Stderr, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, format string) {
	isJSON := strings.ToLower(format) == "json"
	flags := log.LstdFlags | log.Lmicroseconds
	if isJSON {
		flags = 0
	}
	defaultLogger = &Logger{
		level:  ParseLevel(level),
		json:   isJSON,
		logger: log.New(w, "", flags),
	}
}

func (l *Logger) output(level Level, format string, args ...interface{}) {
	if l == nil || l.level > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.json {
		b, err := json.Marshal(struct {
			Time  string `json:"time"`
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}{time.Now().UTC().Format(time.RFC3339Nano), level.String(), msg})
		if err == nil {
			_ = l.logger.Output(3, string(b))
			return
		}
	}
	_ = l.logger.Output(3, "["+level.String()+"] "+msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	defaultLogger.output(DebugLevel, format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	defaultLogger.output(InfoLevel, format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	defaultLogger.output(WarnLevel, format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	defaultLogger.output(ErrorLevel, format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	defaultLogger.output(ErrorLevel, "[FATAL] "+format, args...)
	os.Exit(1)
}
