package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	chesserrors "github.com/lgbarn/chessrules-go/internal/errors"
)

// TestNewConfig_Defaults verifies Config has sensible defaults
func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Search.Depth != 3 {
		t.Errorf("Search.Depth = %d, want 3", cfg.Search.Depth)
	}
	if cfg.Search.OpeningMoves != 4 {
		t.Errorf("Search.OpeningMoves = %d, want 4", cfg.Search.OpeningMoves)
	}
	if cfg.Search.DeficitThreshold != 300 {
		t.Errorf("Search.DeficitThreshold = %d, want 300", cfg.Search.DeficitThreshold)
	}
	if cfg.Search.Seed != 0 {
		t.Errorf("Search.Seed = %d, want 0", cfg.Search.Seed)
	}
	if cfg.Replay.Workers != 4 {
		t.Errorf("Replay.Workers = %d, want 4", cfg.Replay.Workers)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Store.RedisURL != "" || cfg.Store.MongoURI != "" {
		t.Error("stores should default to memory")
	}
	if cfg.Log.Development {
		t.Error("Log.Development should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Search.Depth != 3 || cfg.Server.Addr != ":8080" {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessrules.yaml")
	content := `
search:
  depth: 5
  seed: 42
replay:
  workers: 2
store:
  redis_url: redis://localhost:6379/0
  redis_ttl: 90m
log:
  development: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Search.Depth != 5 {
		t.Errorf("Search.Depth = %d, want 5", cfg.Search.Depth)
	}
	if cfg.Search.Seed != 42 {
		t.Errorf("Search.Seed = %d, want 42", cfg.Search.Seed)
	}
	if cfg.Search.OpeningMoves != 4 {
		t.Errorf("Search.OpeningMoves = %d, want default 4", cfg.Search.OpeningMoves)
	}
	if cfg.Replay.Workers != 2 {
		t.Errorf("Replay.Workers = %d, want 2", cfg.Replay.Workers)
	}
	if cfg.Store.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Store.RedisURL = %q", cfg.Store.RedisURL)
	}
	if cfg.Store.RedisTTL != 90*time.Minute {
		t.Errorf("Store.RedisTTL = %s, want 1h30m", cfg.Store.RedisTTL)
	}
	if cfg.Store.RedisPrefix != "chessrules:game:" {
		t.Errorf("Store.RedisPrefix = %q, want default", cfg.Store.RedisPrefix)
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false, want true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHESSRULES_SEARCH_DEPTH", "2")
	t.Setenv("CHESSRULES_SEARCH_OPENING_MOVES", "0")
	t.Setenv("CHESSRULES_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Search.Depth != 2 {
		t.Errorf("Search.Depth = %d, want 2", cfg.Search.Depth)
	}
	if cfg.Search.OpeningMoves != 0 {
		t.Errorf("Search.OpeningMoves = %d, want 0", cfg.Search.OpeningMoves)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:9000", cfg.Server.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load() of a missing file succeeded")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("CHESSRULES_REPLAY_WORKERS", "0")
		_, err := Load("")
		if !errors.Is(err, chesserrors.ErrInvalidConfig) {
			t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", NewConfig(), false},
		{"depth zero", NewConfigBuilder().WithSearchDepth(0).Build(), true},
		{"depth too deep", NewConfigBuilder().WithSearchDepth(MaxSearchDepth + 1).Build(), true},
		{"negative opening", NewConfigBuilder().WithOpeningMoves(-1).Build(), true},
		{"no workers", NewConfigBuilder().WithWorkers(0).Build(), true},
		{"empty addr", NewConfigBuilder().WithServerAddr("").Build(), true},
		{"negative ttl", NewConfigBuilder().WithRedis("redis://x", -time.Second).Build(), true},
		{"max depth", NewConfigBuilder().WithSearchDepth(MaxSearchDepth).Build(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, chesserrors.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// TestConfigBuilder verifies the fluent builder
func TestConfigBuilder(t *testing.T) {
	cfg := NewConfigBuilder().
		WithSearchDepth(4).
		WithOpeningMoves(2).
		WithSeed(7).
		WithWorkers(8).
		WithServerAddr(":9090").
		WithRedis("redis://localhost:6379", time.Hour).
		WithMongo("mongodb://localhost:27017").
		WithDevelopmentLogging(true).
		Build()

	if cfg.Search.Depth != 4 || cfg.Search.OpeningMoves != 2 || cfg.Search.Seed != 7 {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Replay.Workers != 8 {
		t.Errorf("Replay.Workers = %d, want 8", cfg.Replay.Workers)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.RedisURL != "redis://localhost:6379" || cfg.Store.RedisTTL != time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Store.MongoURI = %q", cfg.Store.MongoURI)
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false")
	}
}

func TestFrom_CopiesConfig(t *testing.T) {
	base := NewConfig()
	derived := From(base).WithSearchDepth(6).Build()

	if base.Search.Depth != 3 {
		t.Errorf("base depth changed to %d", base.Search.Depth)
	}
	if derived.Search.Depth != 6 {
		t.Errorf("derived depth = %d, want 6", derived.Search.Depth)
	}
}
