package intent

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Router.
type Option func(*config)

type config struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// WithLogger sets the router's logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// WithClock sets the clock used to resolve year-less dates like "april 5".
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.Now = now
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: zap.NewNop(),
		Now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
