package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rescuecipher/internal/params"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "rescue.json")

	t.Run("Missing file writes defaults", func(t *testing.T) {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if *cfg != *DefaultConfig() {
			t.Errorf("expected default config, got %+v", cfg)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("default config not written: %v", err)
		}
	})

	t.Run("Saved values are read back", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rounds = 9
		cfg.Seed = "00ff"
		if err := SaveConfig(cfg, path); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}
		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if *loaded != *cfg {
			t.Errorf("expected %+v, got %+v", cfg, loaded)
		}
	})

	t.Run("Partial file keeps defaults", func(t *testing.T) {
		if err := os.WriteFile(path, []byte(`{"rounds": 5}`), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Rounds != 5 || cfg.Width != params.DefaultWidth || cfg.KeyDir != "keys" {
			t.Errorf("unexpected config %+v", cfg)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"Default", func(*Config) {}, nil},
		{"Width 4", func(c *Config) { c.Width = 4 }, params.ErrUnsupportedSize},
		{"Width 1", func(c *Config) { c.Width = 1 }, params.ErrShapeMismatch},
		{"One round", func(c *Config) { c.Rounds = 1 }, params.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	invalid := []func(*Config){
		func(c *Config) { c.Seed = "not hex" },
		func(c *Config) { c.ParamsPath = "" },
		func(c *Config) { c.KeyDir = "" },
		func(c *Config) { c.MaxConcurrency = 0 },
		func(c *Config) { c.MaxSamplingAttempts = -1 },
		func(c *Config) { c.BatchSize = -2 },
	}
	for i, modify := range invalid {
		cfg := DefaultConfig()
		modify(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected a validation error", i)
		}
	}
}
