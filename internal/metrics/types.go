package metrics

import "fmt"

// BiasLevel classifies a disparity ratio against the four-fifths rule
// thresholds: a ratio at or above the high threshold means the numerator
// subgroup carries disproportionate error, at or below the low threshold
// the denominator subgroup does.
type BiasLevel string

const (
	BiasNone               BiasLevel = "NONE"
	BiasAgainstNumerator   BiasLevel = "AGAINST_NUMERATOR"
	BiasAgainstDenominator BiasLevel = "AGAINST_DENOMINATOR"
)

// String returns the string representation of BiasLevel
func (b BiasLevel) String() string {
	return string(b)
}

// DefaultBiasLowThreshold and DefaultBiasHighThreshold are the four-fifths
// rule bounds (0.8 and its reciprocal region 1.25).
const (
	DefaultBiasLowThreshold  = 0.8
	DefaultBiasHighThreshold = 1.25
)

// ClassifyBias applies the threshold logic to a disparity ratio
func ClassifyBias(ratio, low, high float64) BiasLevel {
	if ratio >= high {
		return BiasAgainstNumerator
	}
	if ratio <= low {
		return BiasAgainstDenominator
	}
	return BiasNone
}

// BERResult holds one subgroup's balanced error rate and the balanced class
// counts it was computed over
type BERResult struct {
	Group     string  `json:"group"`
	BER       float64 `json:"ber"`
	FNR       float64 `json:"fnr"`
	FPR       float64 `json:"fpr"`
	NPositive int     `json:"n_positive"`
	NNegative int     `json:"n_negative"`
}

// FormatEvidence generates a human-readable evidence string
func (r *BERResult) FormatEvidence() string {
	return fmt.Sprintf("%s: BER=%.4f (FNR=%.4f, FPR=%.4f) over %d+%d balanced examples",
		r.Group, r.BER, r.FNR, r.FPR, r.NPositive, r.NNegative)
}
