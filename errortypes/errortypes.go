package errortypes

// UnknownSection should be used when a caller references a section name or ID which is
// not in the section registry.
//
// This is a programmer error. It is never recovered from inside the codec.
type UnknownSection struct {
	Message string
}

func (err *UnknownSection) Error() string {
	return err.Message
}

func (err *UnknownSection) Code() int {
	return UnknownSectionErrorCode
}

func (err *UnknownSection) Severity() Severity {
	return SeverityFatal
}

// UnknownField should be used when a caller references a field which does not exist in
// the referenced section.
type UnknownField struct {
	Message string
}

func (err *UnknownField) Error() string {
	return err.Message
}

func (err *UnknownField) Code() int {
	return UnknownFieldErrorCode
}

func (err *UnknownField) Severity() Severity {
	return SeverityFatal
}

// Encoding should be used when a value cannot be represented by its field, e.g. an
// integer which needs more bits than the field is wide, or a character outside of the
// field's alphabet.
type Encoding struct {
	Message string
}

func (err *Encoding) Error() string {
	return err.Message
}

func (err *Encoding) Code() int {
	return EncodingErrorCode
}

func (err *Encoding) Severity() Severity {
	return SeverityFatal
}

// Decoding should be used when an input string is truncated, malformed, or references a
// section ID which is not in the registry.
//
// A Decoding error must never be treated as "no consent" by callers.
type Decoding struct {
	Message string
}

func (err *Decoding) Error() string {
	return err.Message
}

func (err *Decoding) Code() int {
	return DecodingErrorCode
}

func (err *Decoding) Severity() Severity {
	return SeverityFatal
}

// InvalidConfig should be used when a configuration value is out of range or names
// something the codec does not know.
type InvalidConfig struct {
	Message string
}

func (err *InvalidConfig) Error() string {
	return err.Message
}

func (err *InvalidConfig) Code() int {
	return InvalidConfigErrorCode
}

func (err *InvalidConfig) Severity() Severity {
	return SeverityFatal
}

// BadInput should be used when the caller hands over input the codec cannot act on, such as
// a malformed SID list or a JSON document of the wrong shape.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}

// Warning is a generic non-fatal error. Throughout the codebase, an error can
// only be a warning if it's of the type defined below
type Warning struct {
	Message     string
	WarningCode int
}

func (err *Warning) Error() string {
	return err.Message
}

func (err *Warning) Code() int {
	return err.WarningCode
}

func (err *Warning) Severity() Severity {
	return SeverityWarning
}
