package bitstring

import (
	"errors"
	"testing"

	"github.com/prebid/gpp-codec/errortypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUint(t *testing.T) {
	testCases := []struct {
		description string
		value       uint64
		width       int
		expected    string
	}{
		{
			description: "zero_width",
			value:       0,
			width:       0,
			expected:    "",
		},
		{
			description: "left_padded",
			value:       3,
			width:       6,
			expected:    "000011",
		},
		{
			description: "crosses_byte_boundary",
			value:       0xABC,
			width:       12,
			expected:    "101010111100",
		},
		{
			description: "high_bits_dropped",
			value:       0xFF,
			width:       4,
			expected:    "1111",
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			w := NewWriter()
			w.WriteUint(test.value, test.width)
			assert.Equal(t, test.expected, w.BitString().String())
			assert.Equal(t, test.width, w.Len())
		})
	}
}

func TestReaderSequential(t *testing.T) {
	b, err := Parse("000011000001101")
	require.NoError(t, err)

	r := NewReader(b)
	id, err := r.ReadUint(6)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	version, err := r.ReadUint(6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	peeked, err := r.PeekUint(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), peeked)
	assert.Equal(t, 12, r.Pos())

	flag, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, flag)
	assert.Equal(t, 2, r.Remaining())
}

func TestReaderShortInput(t *testing.T) {
	b, err := Parse("1010")
	require.NoError(t, err)

	r := NewReader(b)
	_, err = r.ReadUint(6)

	var decodingErr *errortypes.Decoding
	assert.True(t, errors.As(err, &decodingErr))
	assert.Equal(t, 0, r.Pos(), "a failed read must not consume bits")
}

func TestParseRejectsNonBits(t *testing.T) {
	_, err := Parse("01x")
	assert.Error(t, err)
}

func TestPad(t *testing.T) {
	b, err := Parse("10111")
	require.NoError(t, err)

	assert.Equal(t, "101110", b.Pad(6).String())
	assert.Equal(t, "10111000", b.Pad(8).String())
	assert.Equal(t, "10111", b.Pad(5).String())
	assert.Equal(t, "10111", b.String(), "Pad must not mutate the receiver")
}

func TestBytesClearsTrailingBits(t *testing.T) {
	b := New([]byte{0xFF}, 3)
	assert.Equal(t, []byte{0xE0}, b.Bytes())
	assert.Equal(t, "111", b.String())
}

func TestSliceAndEqual(t *testing.T) {
	b, err := Parse("110010")
	require.NoError(t, err)
	expected, err := Parse("001")
	require.NoError(t, err)

	assert.True(t, b.Slice(2, 5).Equal(expected))
	assert.False(t, b.Equal(expected))
}
