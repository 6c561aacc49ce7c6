package output

import (
	"fmt"
	"io"

	"github.com/fairbench/berq/internal/resample"
)

// QuietFormatter outputs a one-line summary (for scripting and CI gates)
type QuietFormatter struct{}

func (f *QuietFormatter) Format(report *resample.Report, w io.Writer) error {
	flag := ""
	if report.ZeroFloorCount > 0 {
		flag = fmt.Sprintf(" zero_floor=%d", report.ZeroFloorCount)
	}
	fmt.Fprintf(w, "ratio=%.4f ci=[%.4f,%.4f] bias=%s%s\n",
		report.PointEstimate, report.LowerCI, report.UpperCI, report.Bias, flag)
	return nil
}
