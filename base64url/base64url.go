// Package base64url converts bit strings to and from the URL-safe base64 alphabet used
// by GPP tokens. Each character carries 6 bits; no '=' padding is ever written.
package base64url

import (
	"fmt"

	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/errortypes"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var reverse [256]int8

func init() {
	for i := range reverse {
		reverse[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		reverse[alphabet[i]] = int8(i)
	}
}

// Encoder turns a bit string into a printable token and back.
type Encoder interface {
	Encode(bits bitstring.BitString) string
	Decode(token string) (bitstring.BitString, error)
}

// Traditional pads to a multiple of 24 bits, a whole base64 quantum, so tokens never end
// in a partial group. The TCF sections use it.
type Traditional struct{}

func (Traditional) Encode(bits bitstring.BitString) string {
	return encode(bits.Pad(24))
}

func (Traditional) Decode(token string) (bitstring.BitString, error) {
	return decode(token)
}

// Compressed pads to a byte boundary and then to a 6-bit boundary. The output is the raw
// URL encoding of the padded bytes, which keeps small segments short.
type Compressed struct{}

func (Compressed) Encode(bits bitstring.BitString) string {
	return encode(bits.Pad(8).Pad(6))
}

func (Compressed) Decode(token string) (bitstring.BitString, error) {
	return decode(token)
}

func encode(bits bitstring.BitString) string {
	out := make([]byte, 0, bits.Len()/6)
	r := bitstring.NewReader(bits)
	for r.Remaining() >= 6 {
		// cannot fail, the loop condition guarantees 6 bits
		v, _ := r.ReadUint(6)
		out = append(out, alphabet[v])
	}
	return string(out)
}

func decode(token string) (bitstring.BitString, error) {
	w := bitstring.NewWriter()
	for i := 0; i < len(token); i++ {
		v := reverse[token[i]]
		if v < 0 {
			return bitstring.BitString{}, &errortypes.Decoding{
				Message: fmt.Sprintf("undecodable base64url character %q at index %d in %q", token[i], i, token),
			}
		}
		w.WriteUint(uint64(v), 6)
	}
	return w.BitString(), nil
}
