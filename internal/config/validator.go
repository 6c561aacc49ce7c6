package config

import (
	"fmt"
	"strings"

	"github.com/fairbench/berq/internal/errors"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// Summary returns a formatted message covering all findings
func (vr *ValidationResult) Summary() string {
	if !vr.HasErrors() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:")
	for _, err := range vr.Errors {
		sb.WriteString("\n  - " + err)
	}
	return sb.String()
}

// Validate checks the whole configuration and fails fast before any
// resampling begins
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{Valid: true}

	if cfg.Resample.Count <= 0 {
		vr.AddError("resample.count must be positive, got %d", cfg.Resample.Count)
	}
	if cfg.Resample.Confidence <= 0 || cfg.Resample.Confidence >= 1 {
		vr.AddError("resample.confidence must be in (0,1), got %g", cfg.Resample.Confidence)
	}
	if cfg.Resample.Epsilon < 0 {
		vr.AddError("resample.epsilon must be non-negative, got %g", cfg.Resample.Epsilon)
	}
	if cfg.Resample.Workers < 0 {
		vr.AddError("resample.workers must be non-negative, got %d", cfg.Resample.Workers)
	}

	if cfg.Data.LabelColumn == "" {
		vr.AddError("data.label_column must not be empty")
	}
	if cfg.Data.PredictionColumn == "" {
		vr.AddError("data.prediction_column must not be empty")
	}
	if cfg.Data.LabelColumn != "" && cfg.Data.LabelColumn == cfg.Data.PredictionColumn {
		vr.AddError("data.label_column and data.prediction_column must differ")
	}

	if cfg.Bias.LowThreshold <= 0 {
		vr.AddError("bias.low_threshold must be positive, got %g", cfg.Bias.LowThreshold)
	}
	if cfg.Bias.HighThreshold <= cfg.Bias.LowThreshold {
		vr.AddError("bias.high_threshold (%g) must exceed bias.low_threshold (%g)",
			cfg.Bias.HighThreshold, cfg.Bias.LowThreshold)
	}

	if cfg.Resample.Count > 0 && cfg.Resample.Count < 100 {
		vr.AddWarning("resample.count %d is small; CI bounds will be coarse", cfg.Resample.Count)
	}

	return vr
}

// ValidateOrError runs Validate and converts failures into a typed
// configuration error
func ValidateOrError(cfg *Config) error {
	vr := Validate(cfg)
	if vr.HasErrors() {
		return errors.InvalidConfiguration(vr.Summary())
	}
	return nil
}
