package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global structured logger. Production config when
// ENV=production, human-readable development config otherwise.
func Init() {
	once.Do(func() {
		var logger *zap.Logger
		var err error
		if os.Getenv("ENV") == "production" {
			logger, err = zap.NewProduction()
		} else {
			logger, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		sugar = logger.Sugar()
	})
}

// L returns the global logger instance.
func L() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Info logs a message with alternating key-value pairs.
func Info(msg string, args ...any) {
	L().Infow(msg, args...)
}

// Warn logs a warning with alternating key-value pairs.
func Warn(msg string, args ...any) {
	L().Warnw(msg, args...)
}

// Error logs an error with alternating key-value pairs.
func Error(msg string, args ...any) {
	L().Errorw(msg, args...)
}

// Debug logs a debug message with alternating key-value pairs.
func Debug(msg string, args ...any) {
	L().Debugw(msg, args...)
}
