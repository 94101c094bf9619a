// config.go - Configuration management for the rescue driver
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rescuecipher/internal/params"
)

// Config represents the driver configuration
type Config struct {
	// Cipher shape
	Width  int `json:"width"`
	Rounds int `json:"rounds"`

	// Hex seed for deterministic parameter generation. Empty draws from crypto/rand.
	Seed string `json:"seed"`

	// File paths
	ParamsPath string `json:"params_path"`
	KeyDir     string `json:"key_dir"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Performance
	MaxConcurrency      int `json:"max_concurrency"`
	MaxSamplingAttempts int `json:"max_sampling_attempts"`
	BatchSize           int `json:"batch_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Width:               params.DefaultWidth,
		Rounds:              params.DefaultRounds,
		ParamsPath:          "params.json",
		KeyDir:              "keys",
		LogLevel:            "info",
		LogFile:             "rescue.log",
		MaxConcurrency:      4,
		MaxSamplingAttempts: 64,
		BatchSize:           0,
	}
}

// Shape returns the cipher shape the configuration describes.
func (c *Config) Shape() params.Shape {
	return params.Shape{Width: c.Width, Rounds: c.Rounds}
}

// SeedBytes decodes the configured seed. It returns nil when no seed is set.
func (c *Config) SeedBytes() ([]byte, error) {
	if c.Seed == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed must be hex: %w", err)
	}
	return seed, nil
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		config := DefaultConfig()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Shape().Validate(); err != nil {
		return err
	}
	if c.Width != 3 {
		return fmt.Errorf("%w: only width 3 has a matrix inverse, got %d", params.ErrUnsupportedSize, c.Width)
	}
	if _, err := c.SeedBytes(); err != nil {
		return err
	}
	if c.ParamsPath == "" {
		return fmt.Errorf("params_path must be set")
	}
	if c.KeyDir == "" {
		return fmt.Errorf("key_dir must be set")
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	if c.MaxSamplingAttempts < 0 {
		return fmt.Errorf("max_sampling_attempts must not be negative")
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative")
	}
	return nil
}
