package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// From starts the builder from an existing configuration.
func From(cfg *Config) *ConfigBuilder {
	c := *cfg
	return &ConfigBuilder{cfg: &c}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithSearchDepth sets the base search depth.
func (b *ConfigBuilder) WithSearchDepth(depth int) *ConfigBuilder {
	b.cfg.Search.Depth = depth
	return b
}

// WithOpeningMoves sets how many opening moves are searched shallower.
func (b *ConfigBuilder) WithOpeningMoves(n int) *ConfigBuilder {
	b.cfg.Search.OpeningMoves = n
	return b
}

// WithSeed fixes the search seed.
func (b *ConfigBuilder) WithSeed(seed int64) *ConfigBuilder {
	b.cfg.Search.Seed = seed
	return b
}

// WithWorkers sets the replay worker count.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Replay.Workers = n
	return b
}

// WithServerAddr sets the listen address.
func (b *ConfigBuilder) WithServerAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithRedis selects the Redis state store.
func (b *ConfigBuilder) WithRedis(url string, ttl time.Duration) *ConfigBuilder {
	b.cfg.Store.RedisURL = url
	b.cfg.Store.RedisTTL = ttl
	return b
}

// WithMongo selects the MongoDB replay archive.
func (b *ConfigBuilder) WithMongo(uri string) *ConfigBuilder {
	b.cfg.Store.MongoURI = uri
	return b
}

// WithDevelopmentLogging switches to zap's development logger.
func (b *ConfigBuilder) WithDevelopmentLogging(enabled bool) *ConfigBuilder {
	b.cfg.Log.Development = enabled
	return b
}
