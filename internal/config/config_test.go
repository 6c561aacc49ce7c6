package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairbench/berq/internal/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	vr := Validate(Default())
	assert.False(t, vr.HasErrors(), "default config should validate: %v", vr.Errors)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero resamples", func(c *Config) { c.Resample.Count = 0 }},
		{"negative resamples", func(c *Config) { c.Resample.Count = -1 }},
		{"zero confidence", func(c *Config) { c.Resample.Confidence = 0 }},
		{"confidence of one", func(c *Config) { c.Resample.Confidence = 1 }},
		{"negative epsilon", func(c *Config) { c.Resample.Epsilon = -1e-6 }},
		{"negative workers", func(c *Config) { c.Resample.Workers = -2 }},
		{"empty label column", func(c *Config) { c.Data.LabelColumn = "" }},
		{"identical columns", func(c *Config) { c.Data.PredictionColumn = c.Data.LabelColumn }},
		{"zero bias low threshold", func(c *Config) { c.Bias.LowThreshold = 0 }},
		{"inverted bias thresholds", func(c *Config) { c.Bias.LowThreshold = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			vr := Validate(cfg)
			assert.True(t, vr.HasErrors(), "expected validation failure")
		})
	}
}

func TestValidateOrError(t *testing.T) {
	cfg := Default()
	cfg.Resample.Count = 0

	err := ValidateOrError(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfiguration(err))
	assert.Contains(t, err.Error(), "resample.count")
}

func TestValidate_SmallResampleCountWarns(t *testing.T) {
	cfg := Default()
	cfg.Resample.Count = 10

	vr := Validate(cfg)
	assert.False(t, vr.HasErrors())
	assert.NotEmpty(t, vr.Warnings)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("BERQ_SEED", "")
	t.Setenv("BERQ_RESAMPLES", "")
	t.Setenv("BERQ_WORKERS", "")
	t.Setenv("BERQ_HISTORY_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Resample.Count)
	assert.Equal(t, 0.95, cfg.Resample.Confidence)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BERQ_SEED", "10678")
	t.Setenv("BERQ_RESAMPLES", "250")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(10678), cfg.Resample.Seed)
	assert.Equal(t, 250, cfg.Resample.Count)
}
