package config

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `mapstructure:"addr"`

	// EngineReplies makes the server answer each move with an engine move
	// when the game was created with an engine side. Games cannot be
	// created with an engine side while it is off.
	EngineReplies bool `mapstructure:"engine_replies"`
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:          ":8080",
		EngineReplies: true,
	}
}
