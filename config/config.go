// Package config loads ratelens settings from an optional YAML file,
// a .env file and RATELENS_* environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"github.com/spektr-org/ratelens/fallback"
)

// EnvPrefix prefixes every environment override (RATELENS_SERVER_ADDR).
const EnvPrefix = "RATELENS"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fallback FallbackConfig `mapstructure:"fallback"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	UploadDir      string `mapstructure:"upload_dir"`
}

// FallbackConfig controls the general-purpose responder.
type FallbackConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Responder returns the responder settings.
func (f FallbackConfig) Responder() fallback.Config {
	return fallback.Config{URL: f.URL, Model: f.Model, Timeout: f.Timeout}
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

func setDefaults(v *viper.Viper) {
	def := fallback.DefaultConfig()

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.max_upload_bytes", int64(16<<20))
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("fallback.enabled", true)
	v.SetDefault("fallback.url", def.URL)
	v.SetDefault("fallback.model", def.Model)
	v.SetDefault("fallback.timeout", def.Timeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
}

// Load reads configuration. An empty path skips the YAML file; a .env in
// the working directory is loaded when present and never overrides
// variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, eris.Wrapf(err, "config: read %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: decode")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return nil, eris.Errorf("config: server.max_upload_bytes must be positive, got %d", cfg.Server.MaxUploadBytes)
	}
	return &cfg, nil
}
