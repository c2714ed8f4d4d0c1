// Package logger provides leveled logging with debug, info, warn, and error
// levels. It wraps the standard log package with level-based filtering and
// supports plain text or JSON line output.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents a logging level.
type Level int

const (
	// DebugLevel logs are voluminous and usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority; a healthy run shouldn't produce any.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger provides leveled logging in text or JSON format.
type Logger struct {
	level  Level
	json   bool
	logger *log.Logger
}

var defaultLogger *Logger

// Init initializes the default logger with the specified level ("debug",
// "info", "warn", "error") and format ("text" or "json").
func Init(level string, format string) {
	l := InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = DebugLevel
	case "warn":
		l = WarnLevel
	case "error":
		l = ErrorLevel
	}

	jsonFormat := strings.ToLower(format) == "json"
	flags := log.LstdFlags | log.Lmicroseconds
	if jsonFormat {
		// JSON lines carry their own timestamp field.
		flags = 0
	}

	defaultLogger = &Logger{
		level:  l,
		json:   jsonFormat,
		logger: log.New(os.Stderr, "", flags),
	}
}

func output(level Level, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if defaultLogger.json {
		line, err := json.Marshal(map[string]string{
			"time":    time.Now().Format(time.RFC3339Nano),
			"level":   level.String(),
			"message": msg,
		})
		if err == nil {
			_ = defaultLogger.logger.Output(3, string(line))
		}
		return
	}
	_ = defaultLogger.logger.Output(3, "["+level.String()+"] "+msg)
}

// Debug logs a message at DebugLevel.
func Debug(format string, args ...interface{}) {
	output(DebugLevel, format, args...)
}

// Info logs a message at InfoLevel.
func Info(format string, args ...interface{}) {
	output(InfoLevel, format, args...)
}

// Warn logs a message at WarnLevel.
func Warn(format string, args ...interface{}) {
	output(WarnLevel, format, args...)
}

// Error logs a message at ErrorLevel.
func Error(format string, args ...interface{}) {
	output(ErrorLevel, format, args...)
}

// Fatal logs a message at ErrorLevel and exits.
func Fatal(format string, args ...interface{}) {
	if defaultLogger != nil {
		output(ErrorLevel, format, args...)
	} else {
		log.Print("[FATAL] " + fmt.Sprintf(format, args...))
	}
	os.Exit(1)
}
