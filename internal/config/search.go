package config

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// MaxSearchDepth bounds the configured search depth.
const MaxSearchDepth = 8

// SearchConfig holds settings for the automated opponent.
type SearchConfig struct {
	// Depth is the base search depth in plies
	Depth int `mapstructure:"depth"`

	// OpeningMoves is the number of opening moves searched one ply shallower
	OpeningMoves int `mapstructure:"opening_moves"`

	// DeficitThreshold is the material deficit, in centipawns, beyond which
	// the search goes one ply deeper
	DeficitThreshold int `mapstructure:"deficit_threshold"`

	// Seed seeds move shuffling and tie breaks; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
}

// NewSearchConfig creates a SearchConfig with default values.
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Depth:            3,
		OpeningMoves:     4,
		DeficitThreshold: 300,
	}
}

// Validate checks the search settings.
func (c SearchConfig) Validate() error {
	if c.Depth < 1 || c.Depth > MaxSearchDepth {
		return fmt.Errorf("search.depth = %d, must be 1-%d: %w", c.Depth, MaxSearchDepth, errors.ErrInvalidConfig)
	}
	if c.OpeningMoves < 0 {
		return fmt.Errorf("search.opening_moves = %d, must not be negative: %w", c.OpeningMoves, errors.ErrInvalidConfig)
	}
	if c.DeficitThreshold < 0 {
		return fmt.Errorf("search.deficit_threshold = %d, must not be negative: %w", c.DeficitThreshold, errors.ErrInvalidConfig)
	}
	return nil
}
