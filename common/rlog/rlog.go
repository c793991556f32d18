package rlog

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how the process log is written
type Config struct {
	Level      string `toml:"level" yaml:"level"`
	Encoding   string `toml:"encoding" yaml:"encoding"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// L returns the process logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Named returns a child of the process logger
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// SetLogger replaces the process logger
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Configure builds a logger from the config and installs it as the process logger
func Configure(cfg Config) (*zap.Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return l, nil
}

// New builds a zap logger which writes to stderr or to a rotated file
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if len(cfg.Level) > 0 {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch cfg.Encoding {
	case "", "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, errors.Errorf("invalid log encoding %q", cfg.Encoding)
	}

	var out zapcore.WriteSyncer
	if len(cfg.File) == 0 {
		out = zapcore.Lock(os.Stderr)
	} else {
		out = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}
	return zap.New(zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level))), nil
}
