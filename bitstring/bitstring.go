package bitstring

import (
	"fmt"
	"strings"

	"github.com/prebid/gpp-codec/errortypes"
)

// BitString is an ordered sequence of bits, stored most significant bit first.
// The zero value is an empty BitString.
type BitString struct {
	data []byte
	n    int
}

// New builds a BitString from the first n bits of data.
func New(data []byte, n int) BitString {
	if n > len(data)*8 {
		n = len(data) * 8
	}
	if n < 0 {
		n = 0
	}
	return BitString{data: data, n: n}
}

// Parse builds a BitString from its textual form, e.g. "0110".
func Parse(s string) (BitString, error) {
	w := NewWriter()
	for i, c := range s {
		switch c {
		case '0':
			w.WriteBool(false)
		case '1':
			w.WriteBool(true)
		default:
			return BitString{}, &errortypes.Decoding{
				Message: fmt.Sprintf("invalid bit %q at index %d", c, i),
			}
		}
	}
	return w.BitString(), nil
}

// Len returns the number of bits.
func (b BitString) Len() int {
	return b.n
}

// Bit returns the bit at index i. It panics if i is out of range.
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("bitstring: index %d out of range [0, %d)", i, b.n))
	}
	return b.data[i/8]&(0x80>>uint(i%8)) != 0
}

// Bytes returns the bits packed into bytes. Bits past Len() in the last byte are zero.
func (b BitString) Bytes() []byte {
	out := make([]byte, (b.n+7)/8)
	copy(out, b.data)
	if rem := b.n % 8; rem != 0 {
		out[len(out)-1] &= byte(0xff << uint(8-rem))
	}
	return out
}

// Pad returns a copy of b extended with zero bits up to the next multiple of m.
func (b BitString) Pad(m int) BitString {
	if m <= 0 || b.n%m == 0 {
		return b
	}
	padded := b.n + m - b.n%m
	data := make([]byte, (padded+7)/8)
	copy(data, b.Bytes())
	return BitString{data: data, n: padded}
}

// Slice returns the bits in [from, to).
func (b BitString) Slice(from, to int) BitString {
	w := NewWriter()
	for i := from; i < to; i++ {
		w.WriteBool(b.Bit(i))
	}
	return w.BitString()
}

// Equal reports whether both BitStrings hold the same bits.
func (b BitString) Equal(o BitString) bool {
	if b.n != o.n {
		return false
	}
	for i := 0; i < b.n; i++ {
		if b.Bit(i) != o.Bit(i) {
			return false
		}
	}
	return true
}

func (b BitString) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
