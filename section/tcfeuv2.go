package section

import (
	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

var tcfCodec = segment.BitCodec{Encoder: base64url.Traditional{}}

// Segment types of the TCF sections. The core segment carries no type field; it is
// always the first token.
const (
	tcfCoreSegmentType              = 0
	tcfVendorsDisclosedSegmentType  = 1
	tcfVendorsAllowedSegmentType    = 2
	tcfPublisherPurposesSegmentType = 3
)

var tcfEuV2 = &Def{
	ID:               TcfEuV2ID,
	Name:             TcfEuV2Name,
	SegmentTypeWidth: 3,
	Segments: []*segment.Def{
		{
			Name:  "core",
			Type:  tcfCoreSegmentType,
			Codec: tcfCodec,
			Fields: []field.Def{
				{Name: "Version", Kind: field.FixedInteger{Width: 6}, Default: 2},
				{Name: "Created", Kind: field.Datetime{}},
				{Name: "LastUpdated", Kind: field.Datetime{}},
				{Name: "CmpId", Kind: field.FixedInteger{Width: 12}},
				{Name: "CmpVersion", Kind: field.FixedInteger{Width: 12}},
				{Name: "ConsentScreen", Kind: field.FixedInteger{Width: 6}},
				{Name: "ConsentLanguage", Kind: field.FixedString{Length: 2}, Default: "EN"},
				{Name: "VendorListVersion", Kind: field.FixedInteger{Width: 12}},
				{Name: "PolicyVersion", Kind: field.FixedInteger{Width: 6}, Default: 2},
				{Name: "IsServiceSpecific", Kind: field.Boolean{}},
				{Name: "UseNonStandardTexts", Kind: field.Boolean{}},
				{Name: "SpecialFeatureOptins", Kind: field.FixedBitfield{Length: 12}},
				{Name: "PurposeConsents", Kind: field.FixedBitfield{Length: 24}},
				{Name: "PurposeLegitimateInterests", Kind: field.FixedBitfield{Length: 24}},
				{Name: "PurposeOneTreatment", Kind: field.Boolean{}},
				{Name: "PublisherCountryCode", Kind: field.FixedString{Length: 2}, Default: "AA"},
				{Name: "VendorConsents", Kind: field.OptimizedFixedRange{}},
				{Name: "VendorLegitimateInterests", Kind: field.OptimizedFixedRange{}},
				{Name: "PublisherRestrictions", Kind: field.ArrayOfRanges{KeyWidth: 6, TypeWidth: 2}},
			},
		},
		{
			Name:     "publisherpurposes",
			Type:     tcfPublisherPurposesSegmentType,
			Codec:    tcfCodec,
			Optional: true,
			Fields: []field.Def{
				{Name: "PublisherPurposesSegmentType", Kind: field.FixedInteger{Width: 3}, Default: tcfPublisherPurposesSegmentType, ReadOnly: true},
				{Name: "PublisherConsents", Kind: field.FixedBitfield{Length: 24}},
				{Name: "PublisherLegitimateInterests", Kind: field.FixedBitfield{Length: 24}},
				{Name: "NumCustomPurposes", Kind: field.FixedInteger{Width: 6}},
				{Name: "PublisherCustomConsents", Kind: field.FlexibleBitfield{LengthField: "NumCustomPurposes"}},
				{Name: "PublisherCustomLegitimateInterests", Kind: field.FlexibleBitfield{LengthField: "NumCustomPurposes"}},
			},
		},
		{
			Name:     "vendorsallowed",
			Type:     tcfVendorsAllowedSegmentType,
			Codec:    tcfCodec,
			Optional: true,
			Fields: []field.Def{
				{Name: "VendorsAllowedSegmentType", Kind: field.FixedInteger{Width: 3}, Default: tcfVendorsAllowedSegmentType, ReadOnly: true},
				{Name: "VendorsAllowed", Kind: field.OptimizedFixedRange{}},
			},
		},
		{
			Name:     "vendorsdisclosed",
			Type:     tcfVendorsDisclosedSegmentType,
			Codec:    tcfCodec,
			Optional: true,
			Fields: []field.Def{
				{Name: "VendorsDisclosedSegmentType", Kind: field.FixedInteger{Width: 3}, Default: tcfVendorsDisclosedSegmentType, ReadOnly: true},
				{Name: "VendorsDisclosed", Kind: field.OptimizedFixedRange{}},
			},
		},
	},
}
