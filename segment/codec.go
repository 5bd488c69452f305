package segment

import (
	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/field"
)

// Codec turns the fields of a segment into one token and back.
type Codec interface {
	Encode(fields *field.Set) (string, error)
	Decode(token string, fields *field.Set) error
}

// BitCodec packs the fields into a bit string and prints it with a base64url encoder.
type BitCodec struct {
	Encoder base64url.Encoder
	// Upgrade, when set, rewrites decoded bits of an older layout into the current one
	// before the fields are read.
	Upgrade func(bits bitstring.BitString) bitstring.BitString
}

func (c BitCodec) Encode(fields *field.Set) (string, error) {
	w := bitstring.NewWriter()
	if err := fields.Encode(w); err != nil {
		return "", err
	}
	return c.Encoder.Encode(w.BitString()), nil
}

func (c BitCodec) Decode(token string, fields *field.Set) error {
	bits, err := c.Encoder.Decode(token)
	if err != nil {
		return err
	}
	if c.Upgrade != nil {
		bits = c.Upgrade(bits)
	}
	return fields.Decode(bitstring.NewReader(bits))
}
