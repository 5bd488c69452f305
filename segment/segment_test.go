package segment

import (
	"errors"
	"testing"

	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func gpcDef() *Def {
	return &Def{
		Name: "gpc",
		Fields: []field.Def{
			{Name: "GpcSegmentType", Kind: field.FixedInteger{Width: 2}, Default: 1, ReadOnly: true},
			{Name: "GpcSegmentIncluded", Kind: field.Boolean{}, Virtual: true},
			{Name: "Gpc", Kind: field.Boolean{}},
		},
		Codec:        BitCodec{Encoder: base64url.Compressed{}},
		Optional:     true,
		IncludeField: "GpcSegmentIncluded",
	}
}

type codecMock struct {
	mock.Mock
}

func (m *codecMock) Encode(fields *field.Set) (string, error) {
	args := m.Called(fields)
	return args.String(0), args.Error(1)
}

func (m *codecMock) Decode(token string, fields *field.Set) error {
	args := m.Called(token, fields)
	return args.Error(0)
}

func TestEncode(t *testing.T) {
	s := New(gpcDef())
	require.NoError(t, s.SetFieldValue("Gpc", true))

	token, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t, "YA", token)
}

func TestEncodeIsCachedUntilFieldChanges(t *testing.T) {
	codec := &codecMock{}
	codec.On("Encode", mock.Anything).Return("token", nil).Twice()

	def := gpcDef()
	def.Codec = codec
	s := New(def)

	for i := 0; i < 3; i++ {
		_, err := s.Encode()
		require.NoError(t, err)
	}
	require.NoError(t, s.SetFieldValue("Gpc", true))
	_, err := s.Encode()
	require.NoError(t, err)

	codec.AssertNumberOfCalls(t, "Encode", 2)
}

func TestDecode(t *testing.T) {
	s := New(gpcDef())
	require.NoError(t, s.Decode("YA"))

	gpc, err := s.GetFieldValue("Gpc")
	require.NoError(t, err)
	assert.Equal(t, true, gpc)

	included, err := s.GetFieldValue("GpcSegmentIncluded")
	require.NoError(t, err)
	assert.Equal(t, true, included, "a decoded optional segment stays included")
	assert.True(t, s.Included())
}

func TestDecodedSegmentEncodesCanonically(t *testing.T) {
	s := New(gpcDef())
	require.NoError(t, s.Decode("YAAA"))

	token, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t, "YA", token)
}

func TestDecodeFailureKeepsState(t *testing.T) {
	testCases := []struct {
		description string
		token       string
	}{
		{
			description: "empty",
			token:       "",
		},
		{
			description: "invalid_character",
			token:       "*",
		},
		{
			description: "wrong_segment_type",
			token:       "oA",
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			s := New(gpcDef())
			require.NoError(t, s.SetFieldValue("Gpc", true))

			err := s.Decode(test.token)
			var decodingErr *errortypes.Decoding
			require.True(t, errors.As(err, &decodingErr))
			assert.Contains(t, err.Error(), "gpc")

			gpc, _ := s.GetFieldValue("Gpc")
			assert.Equal(t, true, gpc)
		})
	}
}

func TestDecodeReportsCodecFailuresAsDecoding(t *testing.T) {
	codec := &codecMock{}
	codec.On("Decode", "x", mock.Anything).Return(&errortypes.UnknownField{Message: "no field"})

	def := gpcDef()
	def.Codec = codec
	err := New(def).Decode("x")

	var decodingErr *errortypes.Decoding
	assert.True(t, errors.As(err, &decodingErr))
	codec.AssertExpectations(t)
}

func TestIncluded(t *testing.T) {
	testCases := []struct {
		description string
		set         map[string]any
		expected    bool
	}{
		{
			description: "untouched",
			set:         map[string]any{},
			expected:    false,
		},
		{
			description: "field_assigned",
			set:         map[string]any{"Gpc": false},
			expected:    true,
		},
		{
			description: "explicitly_excluded",
			set:         map[string]any{"Gpc": true, "GpcSegmentIncluded": false},
			expected:    false,
		},
		{
			description: "explicitly_included",
			set:         map[string]any{"GpcSegmentIncluded": true},
			expected:    true,
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			s := New(gpcDef())
			for name, value := range test.set {
				require.NoError(t, s.SetFieldValue(name, value))
			}
			assert.Equal(t, test.expected, s.Included())
		})
	}
}

func TestUnknownField(t *testing.T) {
	s := New(gpcDef())
	_, err := s.GetFieldValue("Nope")
	var unknownErr *errortypes.UnknownField
	assert.True(t, errors.As(err, &unknownErr))
	assert.False(t, s.HasField("Nope"))
	assert.Equal(t, []string{"GpcSegmentType", "GpcSegmentIncluded", "Gpc"}, s.FieldNames())
}

func TestBitCodecUpgrade(t *testing.T) {
	codec := BitCodec{
		Encoder: base64url.Compressed{},
		Upgrade: func(bits bitstring.BitString) bitstring.BitString {
			w := bitstring.NewWriter()
			w.WriteUint(1, 2)
			w.WriteBitString(bits)
			return w.BitString()
		},
	}
	fields := field.NewSet(gpcDef().Fields)
	// "g" is 100000: with the 01 prefix the upgraded bits read type 1 and Gpc true
	require.NoError(t, codec.Decode("g", fields))
	gpc, _ := fields.Get("Gpc")
	assert.Equal(t, true, gpc)
}
