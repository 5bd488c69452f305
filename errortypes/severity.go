package errortypes

import "github.com/pkg/errors"

// Severity represents the severity level of a codec error.
type Severity int

const (
	// SeverityUnknown represents an unknown severity level.
	SeverityUnknown Severity = iota

	// SeverityFatal represents an error which fails the operation in progress.
	SeverityFatal

	// SeverityWarning represents a non-fatal error where invalid or ambiguous
	// input was skipped.
	SeverityWarning
)

// isFatal treats errors without a severity, wrapped or not, as fatal.
func isFatal(err error) bool {
	var s Coder
	return !errors.As(err, &s) || s.Severity() == SeverityFatal
}

// IsWarning reports whether err, or an error it wraps, carries SeverityWarning. Codec
// warnings are always of type Warning.
func IsWarning(err error) bool {
	var s Coder
	return errors.As(err, &s) && s.Severity() == SeverityWarning
}

// ContainsFatalError checks if the error list contains a fatal error.
func ContainsFatalError(errs []error) bool {
	for _, err := range errs {
		if isFatal(err) {
			return true
		}
	}
	return false
}

// FatalOnly returns a new error list with only the fatal severity errors.
func FatalOnly(errs []error) []error {
	return filter(errs, isFatal)
}

// WarningOnly returns a new error list with only the warning severity errors.
func WarningOnly(errs []error) []error {
	return filter(errs, IsWarning)
}

func filter(errs []error, keep func(error) bool) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if keep(err) {
			out = append(out, err)
		}
	}
	return out
}
