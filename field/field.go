// Package field implements the typed values a GPP segment is made of. A Kind is a
// stateless codec for one value shape; a Set holds the ordered field definitions of one
// segment together with their current values.
package field

import (
	"fmt"

	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/errortypes"
)

// Kind encodes and decodes one value shape.
//
// Encode and Decode receive the enclosing Set so that a kind can size itself from a field
// which precedes it, e.g. a FlexibleBitfield whose length is held by a count field.
type Kind interface {
	// Default returns the value a new field of this kind holds.
	Default() any
	// Normalize coerces a caller supplied value to the kind's canonical Go type and checks
	// that it can be encoded.
	Normalize(value any) (any, error)
	Encode(w *bitstring.Writer, value any, set *Set) error
	Decode(r *bitstring.Reader, set *Set) (any, error)
}

// Def declares one field of a segment.
type Def struct {
	Name string
	Kind Kind
	// Default overrides Kind.Default() when non-nil.
	Default any
	// Virtual fields live in the Set but are never written to the wire.
	Virtual bool
	// ReadOnly fields always hold their default. Segment type discriminators are read-only.
	ReadOnly bool
}

func (d Def) defaultValue() any {
	if d.Default != nil {
		v, err := d.Kind.Normalize(d.Default)
		if err != nil {
			panic(fmt.Sprintf("field %s: invalid default %v: %v", d.Name, d.Default, err))
		}
		return v
	}
	return d.Kind.Default()
}

func encodingError(format string, args ...any) error {
	return &errortypes.Encoding{Message: fmt.Sprintf(format, args...)}
}

func decodingError(format string, args ...any) error {
	return &errortypes.Decoding{Message: fmt.Sprintf(format, args...)}
}
