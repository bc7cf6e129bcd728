// Package logging builds the zap loggers used across ratelens.
package logging

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger, or a colored console logger when dev is set.
// Level is any zap level name ("debug", "info", "warn", "error").
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "logging: level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "logging: build")
	}
	return log, nil
}

// Must is New for main packages; it falls back to a production logger.
func Must(level string, dev bool) *zap.Logger {
	log, err := New(level, dev)
	if err != nil {
		log = zap.Must(zap.NewProduction())
		log.Warn("⚠️ invalid log settings, using defaults", zap.Error(err))
	}
	return log
}
