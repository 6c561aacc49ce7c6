package metrics

import "testing"

func TestClassifyBias(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected BiasLevel
	}{
		{"parity", 1.0, BiasNone},
		{"just under high threshold", 1.24, BiasNone},
		{"at high threshold", 1.25, BiasAgainstNumerator},
		{"well above high threshold", 2.0, BiasAgainstNumerator},
		{"just above low threshold", 0.81, BiasNone},
		{"at low threshold", 0.8, BiasAgainstDenominator},
		{"well below low threshold", 0.5, BiasAgainstDenominator},
		{"zero ratio", 0.0, BiasAgainstDenominator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyBias(tt.ratio, DefaultBiasLowThreshold, DefaultBiasHighThreshold)
			if result != tt.expected {
				t.Errorf("ClassifyBias(%.2f) = %v, want %v", tt.ratio, result, tt.expected)
			}
		})
	}
}

func TestClassifyBias_CustomThresholds(t *testing.T) {
	if got := ClassifyBias(1.1, 0.9, 1.05); got != BiasAgainstNumerator {
		t.Errorf("ClassifyBias(1.1) with high threshold 1.05 = %v, want %v",
			got, BiasAgainstNumerator)
	}
	if got := ClassifyBias(0.85, 0.9, 1.05); got != BiasAgainstDenominator {
		t.Errorf("ClassifyBias(0.85) with low threshold 0.9 = %v, want %v",
			got, BiasAgainstDenominator)
	}
}

func TestBERResultFormatEvidence(t *testing.T) {
	result := &BERResult{Group: "Female", BER: 0.2, FNR: 0.2, FPR: 0.2, NPositive: 50, NNegative: 50}
	evidence := result.FormatEvidence()
	if evidence == "" {
		t.Fatal("FormatEvidence() returned empty string")
	}
}
