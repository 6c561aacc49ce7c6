package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorTypeMatching(t *testing.T) {
	err := DataInsufficientf("subgroup %q has no positive true labels", "Female")

	if !IsDataInsufficient(err) {
		t.Error("IsDataInsufficient() = false, want true")
	}
	if IsInvalidConfiguration(err) {
		t.Error("IsInvalidConfiguration() = true, want false")
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := DataInsufficient("subgroup has no negatives")
	wrapped := Wrap(inner, ErrorTypeData, SeverityCritical, "resampling failed")

	if !IsDataInsufficient(wrapped) {
		t.Error("wrapped error lost its data-insufficient type")
	}
	if !stderrors.Is(wrapped, inner) {
		t.Error("errors.Is() should see through the wrapper")
	}
}

func TestWrapThroughFmtErrorf(t *testing.T) {
	inner := InvalidConfiguration("confidence must be in (0,1)")
	wrapped := fmt.Errorf("loading options: %w", inner)

	if !IsInvalidConfiguration(wrapped) {
		t.Error("type matching should see through fmt.Errorf wrapping")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := FileSystemError(cause, "failed to open input")

	if got := err.Error(); got != "failed to open input: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestWithContext(t *testing.T) {
	err := DataInsufficient("degenerate subgroup").
		WithContext("subgroup", "Male").
		WithContext("iteration", 17)

	if err.Context["subgroup"] != "Male" {
		t.Errorf("Context[subgroup] = %v", err.Context["subgroup"])
	}

	detailed := err.DetailedString()
	if detailed == "" {
		t.Fatal("DetailedString() returned empty string")
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(DataInsufficient("x")) {
		t.Error("data errors are critical")
	}
	if IsFatal(ValidationError("x")) {
		t.Error("validation errors are high severity, not critical")
	}
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrorTypeData, SeverityCritical, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}
