// Package config loads inkmap settings from a YAML file on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "inkmap.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendHTTP   = "http"
)

// Config is the full application configuration.
type Config struct {
	Limits domain.Limits `mapstructure:"limits"`
	Store  StoreConfig   `mapstructure:"store"`
	Server ServerConfig  `mapstructure:"server"`
	Log    LogConfig     `mapstructure:"log"`
}

// StoreConfig selects and configures the coordinate store.
type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	URL     string        `mapstructure:"url"`
	Redis   RedisConfig   `mapstructure:"redis"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Limits: domain.DefaultLimits(),
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".inkmap/coordinates",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "inkmap:",
			},
			LockTTL: 30 * time.Second,
		},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML data into cfg. Keys absent from data keep their value.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg.Limits = cfg.Limits.Normalize()
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendHTTP:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the http backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
