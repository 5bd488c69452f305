package section

import (
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

var tcfCaV1 = &Def{
	ID:               TcfCaV1ID,
	Name:             TcfCaV1Name,
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
				{Name: "TcfPolicyVersion", Kind: field.FixedInteger{Width: 6}, Default: 2},
				{Name: "UseNonStandardTexts", Kind: field.Boolean{}},
				{Name: "SpecialFeatureExpressConsent", Kind: field.FixedBitfield{Length: 12}},
				{Name: "PurposesExpressConsent", Kind: field.FixedBitfield{Length: 24}},
				{Name: "PurposesImpliedConsent", Kind: field.FixedBitfield{Length: 24}},
				{Name: "VendorExpressConsent", Kind: field.OptimizedFixedRange{}},
				{Name: "VendorImpliedConsent", Kind: field.OptimizedFixedRange{}},
				{Name: "PubRestrictions", Kind: field.ArrayOfRanges{KeyWidth: 6, TypeWidth: 2}},
			},
		},
		{
			Name:     "disclosedvendors",
			Type:     tcfVendorsDisclosedSegmentType,
			Codec:    tcfCodec,
			Optional: true,
			Fields: []field.Def{
				{Name: "DisclosedVendorsSegmentType", Kind: field.FixedInteger{Width: 3}, Default: tcfVendorsDisclosedSegmentType, ReadOnly: true},
				{Name: "DisclosedVendors", Kind: field.OptimizedFixedRange{}},
			},
		},
		{
			Name:     "publisherpurposes",
			Type:     tcfPublisherPurposesSegmentType,
			Codec:    tcfCodec,
			Optional: true,
			Fields: []field.Def{
				{Name: "PubPurposesSegmentType", Kind: field.FixedInteger{Width: 3}, Default: tcfPublisherPurposesSegmentType, ReadOnly: true},
				{Name: "PubPurposesExpressConsent", Kind: field.FixedBitfield{Length: 24}},
				{Name: "PubPurposesImpliedConsent", Kind: field.FixedBitfield{Length: 24}},
				{Name: "NumCustomPurposes", Kind: field.FixedInteger{Width: 6}},
				{Name: "CustomPurposesExpressConsent", Kind: field.FlexibleBitfield{LengthField: "NumCustomPurposes"}},
				{Name: "CustomPurposesImpliedConsent", Kind: field.FlexibleBitfield{LengthField: "NumCustomPurposes"}},
			},
		},
	},
}
