package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for NewDataset() and NewStore()
// ============================================================================

// Option configures dataset construction.
type Option func(*config)

type config struct {
	Source  string
	Columns Columns
	Logger  *zap.Logger
}

// WithSource labels the dataset with its origin (file name, upload name).
func WithSource(source string) Option {
	return func(c *config) {
		c.Source = source
	}
}

// WithColumns declares which source columns were present.
// Without it every known column is assumed present.
func WithColumns(cols Columns) Option {
	return func(c *config) {
		c.Columns = cols
	}
}

// WithLogger sets the logger used during construction and swaps.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Columns == nil {
		cfg.Columns = AllColumns()
	}
	return cfg
}
