package section

import (
	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

var usCodec = segment.BitCodec{Encoder: base64url.Compressed{}}

// usFlag is the 2 bit value shared by every US notice, opt-out and consent field:
// 0 not applicable, 1 yes / opted out, 2 no / did not opt out.
var usFlag = field.FixedInteger{Width: 2}

func usVersion() field.Def {
	return field.Def{Name: "Version", Kind: field.FixedInteger{Width: 6}, Default: 1}
}

func usFlags(names ...string) []field.Def {
	defs := make([]field.Def, len(names))
	for i, name := range names {
		defs[i] = field.Def{Name: name, Kind: usFlag}
	}
	return defs
}

func usList(name string, count int) field.Def {
	return field.Def{Name: name, Kind: field.FixedIntegerList{Width: 2, Count: count}}
}

func fields(groups ...[]field.Def) []field.Def {
	var out []field.Def
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func mspaFields() []field.Def {
	return usFlags("MspaCoveredTransaction", "MspaOptOutOptionMode", "MspaServiceProviderMode")
}

// gpcSegment is the optional Global Privacy Control segment carried by several US
// sections. It is written once any of its fields is assigned, unless GpcSegmentIncluded
// is explicitly false.
func gpcSegment() *segment.Def {
	return &segment.Def{
		Name:         "gpc",
		Codec:        usCodec,
		Type:         1,
		Optional:     true,
		IncludeField: "GpcSegmentIncluded",
		Fields: []field.Def{
			{Name: "GpcSegmentType", Kind: field.FixedInteger{Width: 2}, Default: 1, ReadOnly: true},
			{Name: "GpcSegmentIncluded", Kind: field.Boolean{}, Virtual: true},
			{Name: "Gpc", Kind: field.Boolean{}},
		},
	}
}

const (
	usNatCoreBits   = 70
	usNatLegacyBits = 60
)

// upgradeUsNatCore expands the first release layout (12 sensitive data categories, 2
// known child categories) to the current one (16 and 3).
func upgradeUsNatCore(bits bitstring.BitString) bitstring.BitString {
	if bits.Len() >= usNatCoreBits || bits.Len() < usNatLegacyBits {
		return bits
	}
	w := bitstring.NewWriter()
	w.WriteBitString(bits.Slice(0, 48))
	w.WriteUint(0, 8)
	w.WriteBitString(bits.Slice(48, 52))
	w.WriteUint(0, 2)
	w.WriteBitString(bits.Slice(52, usNatLegacyBits))
	return w.BitString()
}

var usNat = &Def{
	ID:   UsNatID,
	Name: UsNatName,
	Segments: []*segment.Def{
		{
			Name:  "core",
			Codec: segment.BitCodec{Encoder: base64url.Compressed{}, Upgrade: upgradeUsNatCore},
			Fields: fields(
				[]field.Def{usVersion()},
				usFlags(
					"SharingNotice",
					"SaleOptOutNotice",
					"SharingOptOutNotice",
					"TargetedAdvertisingOptOutNotice",
					"SensitiveDataProcessingOptOutNotice",
					"SensitiveDataLimitUseNotice",
					"SaleOptOut",
					"SharingOptOut",
					"TargetedAdvertisingOptOut",
				),
				[]field.Def{
					usList("SensitiveDataProcessing", 16),
					usList("KnownChildSensitiveDataConsents", 3),
				},
				usFlags("PersonalDataConsents"),
				mspaFields(),
			),
		},
		gpcSegment(),
	},
}
