// SPDX-License-Identifier: MIT
package log

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity of a log message.
type LogLevel uint32

// Constants for log levels.
const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a LogLevel.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(levelStr string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false // Default to Info on parse error
	}
}

// zapLevel maps a LogLevel onto the zap level used by the core.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// --- Global Logger State ---

// currentLevel mirrors the zap atomic level so GetLevel stays lock free.
var currentLevel atomic.Uint32

// atomicLevel gates every message written by logger.
var atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// logger is the sugared zap logger used internally. Output goes to stderr
// so stdout stays clean for command results (JSON, tables).
var logger = newLogger(zapcore.Lock(os.Stderr))

func newLogger(ws zapcore.WriteSyncer) *zap.SugaredLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), ws, atomicLevel)
	return zap.New(core).Sugar()
}

func init() {
	// Default level at startup. Can be overridden by config.
	SetLevel(LevelInfo)
}

// SetLevel sets the global logging level atomically.
func SetLevel(level LogLevel) {
	currentLevel.Store(uint32(level))
	atomicLevel.SetLevel(level.zapLevel())
}

// GetLevel gets the current global logging level atomically.
func GetLevel() LogLevel {
	return LogLevel(currentLevel.Load())
}

// SetOutput redirects all log output to ws. Used by tests and by commands
// that want logs captured somewhere other than stderr.
func SetOutput(ws zapcore.WriteSyncer) {
	logger = newLogger(ws)
}

// Sync flushes any buffered log entries.
func Sync() error {
	return logger.Sync()
}

// --- Public Logging Functions ---

// Debugf logs a formatted debug message if the level is appropriate.
func Debugf(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// Infof logs a formatted info message if the level is appropriate.
func Infof(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// Warnf logs a formatted warning message if the level is appropriate.
func Warnf(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// Errorf logs a formatted error message if the level is appropriate.
func Errorf(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// Fatalf logs a formatted fatal message and exits the application.
// Fatal messages are always logged regardless of the current level.
func Fatalf(format string, v ...interface{}) {
	logger.Fatalf(format, v...)
}

// --- Functions without formatting (convenience) ---

// Debug logs a debug message if the level is appropriate.
func Debug(v ...interface{}) {
	logger.Debug(fmt.Sprint(v...))
}

// Info logs an info message if the level is appropriate.
func Info(v ...interface{}) {
	logger.Info(fmt.Sprint(v...))
}

// Warn logs a warning message if the level is appropriate.
func Warn(v ...interface{}) {
	logger.Warn(fmt.Sprint(v...))
}

// Error logs an error message if the level is appropriate.
func Error(v ...interface{}) {
	logger.Error(fmt.Sprint(v...))
}

// Fatal logs a fatal message and exits the application.
func Fatal(v ...interface{}) {
	logger.Fatal(fmt.Sprint(v...))
}

// With returns a child logger carrying structured key/value fields, for
// call sites that want more than a formatted line.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return logger.With(keysAndValues...)
}
