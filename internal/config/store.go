package config

import "time"

// StoreConfig holds persistence settings. Empty URLs select the in-memory
// stores.
type StoreConfig struct {
	// RedisURL is a redis:// URL for live game state
	RedisURL string `mapstructure:"redis_url"`

	// RedisPrefix is prepended to every state key
	RedisPrefix string `mapstructure:"redis_prefix"`

	// RedisTTL expires idle game state; 0 keeps it forever
	RedisTTL time.Duration `mapstructure:"redis_ttl"`

	// MongoURI is a mongodb:// URI for the replay archive
	MongoURI string `mapstructure:"mongo_uri"`

	// MongoDatabase names the database holding the games collection
	MongoDatabase string `mapstructure:"mongo_database"`
}

// NewStoreConfig creates a StoreConfig with default values.
func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		RedisPrefix:   "chessrules:game:",
		RedisTTL:      24 * time.Hour,
		MongoDatabase: "chessrules",
	}
}
