package section

import (
	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

// Header field names.
const (
	HeaderIDField         = "ID"
	HeaderVersionField    = "Version"
	HeaderSectionIdsField = "SectionIds"
)

// Header is the first token of every GPP string. It lists the IDs of the sections which
// follow, in order.
//
// The layout is the IAB GPP v1 header: a type, a version and a Fibonacci range of section
// IDs. It carries no timestamps, CMP ID or version, and no per-section length table;
// sections are told apart by the '~' separator and their timestamps live in the sections
// which declare them.
var Header = &Def{
	ID:   HeaderID,
	Name: HeaderName,
	Segments: []*segment.Def{
		{
			Name: "header",
			Fields: []field.Def{
				{Name: HeaderIDField, Kind: field.FixedInteger{Width: 6}, Default: HeaderID},
				{Name: HeaderVersionField, Kind: field.FixedInteger{Width: 6}, Default: 1},
				{Name: HeaderSectionIdsField, Kind: field.FibonacciIntegerRange{}},
			},
			Codec: segment.BitCodec{Encoder: base64url.Compressed{}},
		},
	},
}
