package output

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/fairbench/berq/internal/resample"
)

// Formatter defines output formatting interface
type Formatter interface {
	Format(report *resample.Report, w io.Writer) error
}

// VerbosityLevel determines output detail
type VerbosityLevel int

const (
	VerbosityQuiet    VerbosityLevel = iota // One-line summary (for scripting)
	VerbosityStandard                       // Full report with evidence
	VerbosityJSON                           // Machine-readable JSON
)

// NewFormatter creates appropriate formatter based on level
func NewFormatter(level VerbosityLevel) Formatter {
	switch level {
	case VerbosityQuiet:
		return &QuietFormatter{}
	case VerbosityJSON:
		return &JSONFormatter{}
	default:
		return &StandardFormatter{Decorate: stdoutIsTerminal()}
	}
}

// GetDefaultVerbosity returns appropriate default based on environment
func GetDefaultVerbosity() VerbosityLevel {
	// CI/CD context
	if os.Getenv("CI") == "true" {
		return VerbosityStandard
	}

	// Machine-consumer context
	if os.Getenv("BERQ_JSON") == "1" {
		return VerbosityJSON
	}

	return VerbosityStandard
}

// stdoutIsTerminal reports whether decoration is safe (interactive terminal,
// not a pipe or CI log)
func stdoutIsTerminal() bool {
	if os.Getenv("CI") == "true" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
