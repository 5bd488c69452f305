package errortypes

import (
	"fmt"
	"strings"
)

// AggregateErrors reports every problem of one operation at once, such as each invalid
// configuration key or each fatal error of a CLI command.
type AggregateErrors struct {
	Message string
	Errors  []error
}

func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{
		Message: msg,
		Errors:  errs,
	}
}

// Error lists the collected errors one per line under Message.
func (e AggregateErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	noun := "errors"
	if len(e.Errors) == 1 {
		noun = "error"
	}
	fmt.Fprintf(&b, "%s (%d %s):\n", e.Message, len(e.Errors), noun)
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d: %v\n", i+1, err)
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.As, so ReadCode finds the code of the
// first coded error.
func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}
