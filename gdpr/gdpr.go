// Package gdpr reads the TCF EU v2 section of a GPP string with the IAB go-gdpr library so
// callers can ask vendor and purpose questions of a Model.
package gdpr

// An ErrorMalformedConsent is returned when the TCF string could not be read by go-gdpr
// or carries versions this package does not support.
type ErrorMalformedConsent struct {
	Consent string
	Cause   error
}

func (e *ErrorMalformedConsent) Error() string {
	return "malformed consent string " + e.Consent + ": " + e.Cause.Error()
}

func (e *ErrorMalformedConsent) Unwrap() error {
	return e.Cause
}
