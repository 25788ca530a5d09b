package logger

import (
	"sync"

	"github.com/mstgnz/gopos/infra/config"
	"github.com/mstgnz/gopos/infra/opensearch"
)

var (
	globalLogger *SystemLogger
	mu           sync.RWMutex
)

// InitGlobalLogger installs the process-wide logger. osLogger may be nil.
func InitGlobalLogger(osLogger *opensearch.Logger, cfg *config.AppConfig) {
	sysCfg := SystemLoggerConfig{
		EnableConsole:    true,
		EnableOpenSearch: osLogger != nil && cfg.EnableLogging,
		MinLevel:         ParseLevel(cfg.LoggingLevel),
		Service:          "gopos",
		Version:          "1.0.0",
		Environment:      cfg.Environment,
	}

	mu.Lock()
	globalLogger = NewSystemLogger(osLogger, sysCfg)
	mu.Unlock()
}

// SetGlobalLogger replaces the process-wide logger
func SetGlobalLogger(l *SystemLogger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// GetGlobalLogger returns the global logger instance, falling back to a
// console-only logger when none was installed
func GetGlobalLogger() *SystemLogger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = NewSystemLogger(nil, SystemLoggerConfig{
			EnableConsole: true,
			MinLevel:      LevelInfo,
			Service:       "gopos",
			Version:       "1.0.0",
			Environment:   config.GetEnv("ENVIRONMENT", "development"),
		})
	}
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(message string, ctx ...LogContext) {
	GetGlobalLogger().log(LevelDebug, message, nil, ctx...)
}

// Info logs an info message using the global logger
func Info(message string, ctx ...LogContext) {
	GetGlobalLogger().log(LevelInfo, message, nil, ctx...)
}

// Warn logs a warning message using the global logger
func Warn(message string, ctx ...LogContext) {
	GetGlobalLogger().log(LevelWarn, message, nil, ctx...)
}

// Error logs an error message using the global logger
func Error(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().log(LevelError, message, err, ctx...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, ctx ...LogContext) {
	GetGlobalLogger().Fatal(message, err, ctx...)
}

// WithContext creates a context logger from the global logger
func WithContext(ctx LogContext) *ContextLogger {
	return GetGlobalLogger().WithContext(ctx)
}

// WithGateway creates a context logger for one gateway type
func WithGateway(gateway string) *ContextLogger {
	return WithContext(LogContext{Gateway: gateway})
}
