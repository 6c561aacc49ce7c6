package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Resampling parameters
	Resample ResampleConfig `yaml:"resample" mapstructure:"resample"`

	// Input table column names
	Data DataConfig `yaml:"data" mapstructure:"data"`

	// Bias verdict thresholds
	Bias BiasConfig `yaml:"bias" mapstructure:"bias"`

	// Run-history storage
	History HistoryConfig `yaml:"history" mapstructure:"history"`
}

type ResampleConfig struct {
	Count      int     `yaml:"count" mapstructure:"count"`
	Confidence float64 `yaml:"confidence" mapstructure:"confidence"`
	Epsilon    float64 `yaml:"epsilon" mapstructure:"epsilon"`
	Seed       int64   `yaml:"seed" mapstructure:"seed"` // 0 = pick a fresh seed per run
	Workers    int     `yaml:"workers" mapstructure:"workers"`
}

type DataConfig struct {
	LabelColumn      string `yaml:"label_column" mapstructure:"label_column"`
	PredictionColumn string `yaml:"prediction_column" mapstructure:"prediction_column"`
}

type BiasConfig struct {
	LowThreshold  float64 `yaml:"low_threshold" mapstructure:"low_threshold"`
	HighThreshold float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
}

type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Resample: ResampleConfig{
			Count:      1000,
			Confidence: 0.95,
			Epsilon:    1e-6,
			Seed:       0,
			Workers:    0, // 0 = GOMAXPROCS
		},
		Data: DataConfig{
			LabelColumn:      "labels",
			PredictionColumn: "prediction",
		},
		Bias: BiasConfig{
			LowThreshold:  0.8,
			HighThreshold: 1.25,
		},
		History: HistoryConfig{
			Path: filepath.Join(homeDir, ".berq", "history.db"),
		},
	}
}

// Load loads configuration from file, environment and defaults
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	v.SetDefault("resample", cfg.Resample)
	v.SetDefault("data", cfg.Data)
	v.SetDefault("bias", cfg.Bias)
	v.SetDefault("history", cfg.History)

	// Load from environment variables
	v.SetEnvPrefix("BERQ")
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".berq")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".berq"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".berq", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if seed := os.Getenv("BERQ_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Resample.Seed = s
		}
	}
	if count := os.Getenv("BERQ_RESAMPLES"); count != "" {
		if c, err := strconv.Atoi(count); err == nil {
			cfg.Resample.Count = c
		}
	}
	if workers := os.Getenv("BERQ_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			cfg.Resample.Workers = w
		}
	}
	if path := os.Getenv("BERQ_HISTORY_PATH"); path != "" {
		cfg.History.Path = path
	}
}
