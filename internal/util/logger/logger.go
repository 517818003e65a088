package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
)

// Config defines logging configuration for the tracker library.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "console"
}

// DefaultConfig keeps the library quiet unless something is wrong.
func DefaultConfig() *Config {
	return &Config{Level: "warn", Format: "console"}
}

// InitLogger replaces the package logger with one built from cfg. Hosts that
// never call it get the default warn-level console logger.
func InitLogger(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	global = build(cfg)
}

func build(cfg *Config) *zap.SugaredLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.WarnLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core, zap.AddCallerSkip(1)).Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = build(nil)
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = get().Sync()
}

func Debug(msg string, args ...interface{}) {
	get().Debugf(msg, args...)
}

func Info(msg string, args ...interface{}) {
	get().Infof(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	get().Warnf(msg, args...)
}

func Error(msg string, args ...interface{}) {
	get().Errorf(msg, args...)
}
