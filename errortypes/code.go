package errortypes

import "github.com/pkg/errors"

// Defines numeric codes for well-known errors.
const (
	UnknownErrorCode        = 999
	UnknownSectionErrorCode = iota
	UnknownFieldErrorCode
	EncodingErrorCode
	DecodingErrorCode
	InvalidConfigErrorCode
	BadInputErrorCode
)

// Defines numeric codes for well-known warnings.
const (
	UnknownWarningCode         = 10999
	DisabledSectionWarningCode = iota + 10000
	BlankInputWarningCode
	SIDMismatchWarningCode
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable. Wrapped
// errors report the code of the first Coder in their chain.
func ReadCode(err error) int {
	var e Coder
	if errors.As(err, &e) {
		return e.Code()
	}
	return UnknownErrorCode
}
