// Package config provides configuration for the chess rules engine binaries.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. CHESSRULES_SEARCH_DEPTH.
const EnvPrefix = "CHESSRULES"

// Config holds all program configuration.
type Config struct {
	Search SearchConfig `mapstructure:"search"`
	Replay ReplayConfig `mapstructure:"replay"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
}

// ReplayConfig holds settings for batch game replay.
type ReplayConfig struct {
	// Workers is the number of games replayed concurrently
	Workers int `mapstructure:"workers"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Development switches zap to its human readable development preset
	Development bool `mapstructure:"development"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Search: *NewSearchConfig(),
		Replay: ReplayConfig{Workers: 4},
		Server: *NewServerConfig(),
		Store:  *NewStoreConfig(),
	}
}

// Load reads configuration from path, if given, and from CHESSRULES_
// environment variables. Values missing from both keep their defaults.
// The file type follows the extension (yaml, toml, json, env).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("search.depth", cfg.Search.Depth)
	v.SetDefault("search.opening_moves", cfg.Search.OpeningMoves)
	v.SetDefault("search.deficit_threshold", cfg.Search.DeficitThreshold)
	v.SetDefault("search.seed", cfg.Search.Seed)
	v.SetDefault("replay.workers", cfg.Replay.Workers)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.engine_replies", cfg.Server.EngineReplies)
	v.SetDefault("store.redis_url", cfg.Store.RedisURL)
	v.SetDefault("store.redis_prefix", cfg.Store.RedisPrefix)
	v.SetDefault("store.redis_ttl", cfg.Store.RedisTTL)
	v.SetDefault("store.mongo_uri", cfg.Store.MongoURI)
	v.SetDefault("store.mongo_database", cfg.Store.MongoDatabase)
	v.SetDefault("log.development", cfg.Log.Development)
}

// Validate checks value ranges. Failures wrap errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.Replay.Workers < 1 {
		return fmt.Errorf("replay.workers = %d, must be at least 1: %w", c.Replay.Workers, errors.ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty: %w", errors.ErrInvalidConfig)
	}
	if c.Store.RedisTTL < 0 {
		return fmt.Errorf("store.redis_ttl = %s, must not be negative: %w", c.Store.RedisTTL, errors.ErrInvalidConfig)
	}
	return nil
}
