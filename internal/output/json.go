package output

import (
	"encoding/json"
	"io"

	"github.com/fairbench/berq/internal/resample"
)

// JSONFormatter outputs the machine-readable report
type JSONFormatter struct{}

func (f *JSONFormatter) Format(report *resample.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
