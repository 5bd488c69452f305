package bitstring

import (
	"fmt"

	"github.com/prebid/gpp-codec/errortypes"
)

// Reader consumes a BitString sequentially.
type Reader struct {
	bits BitString
	pos  int
}

func NewReader(b BitString) *Reader {
	return &Reader{bits: b}
}

// Pos returns the index of the next bit to be read.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.bits.Len() - r.pos
}

// ReadBool consumes one bit.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.require(1); err != nil {
		return false, err
	}
	v := r.bits.Bit(r.pos)
	r.pos++
	return v, nil
}

// ReadUint consumes width bits as a big-endian unsigned integer. width must not exceed 64.
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width > 64 {
		return 0, &errortypes.Decoding{
			Message: fmt.Sprintf("cannot read %d bits into a 64 bit integer", width),
		}
	}
	if err := r.require(width); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < width; i++ {
		v <<= 1
		if r.bits.Bit(r.pos) {
			v |= 1
		}
		r.pos++
	}
	return v, nil
}

// ReadBitString consumes n bits.
func (r *Reader) ReadBitString(n int) (BitString, error) {
	if err := r.require(n); err != nil {
		return BitString{}, err
	}
	b := r.bits.Slice(r.pos, r.pos+n)
	r.pos += n
	return b, nil
}

// PeekUint reads width bits without consuming them.
func (r *Reader) PeekUint(width int) (uint64, error) {
	pos := r.pos
	v, err := r.ReadUint(width)
	r.pos = pos
	return v, err
}

func (r *Reader) require(n int) error {
	if n < 0 || r.pos+n > r.bits.Len() {
		return &errortypes.Decoding{
			Message: fmt.Sprintf("expected %d bits at bit %d, but the input was only %d bits long", n, r.pos, r.bits.Len()),
		}
	}
	return nil
}
