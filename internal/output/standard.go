package output

import (
	"fmt"
	"io"

	"github.com/fairbench/berq/internal/metrics"
	"github.com/fairbench/berq/internal/resample"
)

// StandardFormatter prints the full report (default)
type StandardFormatter struct {
	// Decorate enables terminal symbols; disabled for pipes and CI logs
	Decorate bool
}

func (f *StandardFormatter) Format(report *resample.Report, w io.Writer) error {
	fmt.Fprintf(w, "%sBER Disparity Analysis\n", f.symbol("🔍 "))
	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "Groups: %s / %s\n\n", report.NumeratorGroup, report.DenominatorGroup)

	fmt.Fprintf(w, "Balanced error rates (median over %d resamples):\n", report.Resamples)
	fmt.Fprintf(w, "  %-24s %.4f (balanced to %d per class)\n",
		report.NumeratorGroup, report.NumeratorBER, report.NumeratorSize)
	fmt.Fprintf(w, "  %-24s %.4f (balanced to %d per class)\n\n",
		report.DenominatorGroup, report.DenominatorBER, report.DenominatorSize)

	fmt.Fprintf(w, "BER ratio (%s / %s): %.4f\n",
		report.NumeratorGroup, report.DenominatorGroup, report.PointEstimate)
	fmt.Fprintf(w, "%.0f%% CI: [%.4f, %.4f]\n", report.Confidence*100, report.LowerCI, report.UpperCI)
	fmt.Fprintf(w, "Seed: %d\n", report.Seed)

	if report.ZeroFloorCount > 0 {
		fmt.Fprintf(w, "\n%s%d of %d resamples hit a zero denominator BER; the epsilon floor was applied.\n",
			f.symbol("⚠️  "), report.ZeroFloorCount, report.Resamples)
		fmt.Fprintf(w, "Treat the ratio with caution: %s classified (nearly) perfectly.\n",
			report.DenominatorGroup)
	}

	fmt.Fprintf(w, "\nVerdict: %s\n", verdictText(report))
	return nil
}

func (f *StandardFormatter) symbol(s string) string {
	if f.Decorate {
		return s
	}
	return ""
}

func verdictText(report *resample.Report) string {
	switch report.Bias {
	case metrics.BiasAgainstNumerator:
		return fmt.Sprintf("classification error is disproportionately high for %s", report.NumeratorGroup)
	case metrics.BiasAgainstDenominator:
		return fmt.Sprintf("classification error is disproportionately high for %s", report.DenominatorGroup)
	default:
		return "no selection bias observed between the two subgroups"
	}
}
