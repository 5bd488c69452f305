package section

import (
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

func usCore(defs []field.Def) *segment.Def {
	return &segment.Def{Name: "core", Codec: usCodec, Fields: defs}
}

var usCa = &Def{
	ID:   UsCaID,
	Name: UsCaName,
	Segments: []*segment.Def{
		usCore(fields(
			[]field.Def{usVersion()},
			usFlags(
				"SaleOptOutNotice",
				"SharingOptOutNotice",
				"SensitiveDataLimitUseNotice",
				"SaleOptOut",
				"SharingOptOut",
			),
			[]field.Def{
				usList("SensitiveDataProcessing", 9),
				usList("KnownChildSensitiveDataConsents", 2),
			},
			usFlags("PersonalDataConsents"),
			mspaFields(),
		)),
		gpcSegment(),
	},
}

var usVa = &Def{
	ID:   UsVaID,
	Name: UsVaName,
	Segments: []*segment.Def{
		usCore(fields(
			[]field.Def{usVersion()},
			usFlags(
				"SharingNotice",
				"SaleOptOutNotice",
				"TargetedAdvertisingOptOutNotice",
				"SaleOptOut",
				"TargetedAdvertisingOptOut",
			),
			[]field.Def{usList("SensitiveDataProcessing", 8)},
			usFlags("KnownChildSensitiveDataConsents"),
			mspaFields(),
		)),
	},
}

var usCo = &Def{
	ID:   UsCoID,
	Name: UsCoName,
	Segments: []*segment.Def{
		usCore(fields(
			[]field.Def{usVersion()},
			usFlags(
				"SharingNotice",
				"SaleOptOutNotice",
				"TargetedAdvertisingOptOutNotice",
				"SaleOptOut",
				"TargetedAdvertisingOptOut",
			),
			[]field.Def{usList("SensitiveDataProcessing", 7)},
			usFlags("KnownChildSensitiveDataConsents"),
			mspaFields(),
		)),
		gpcSegment(),
	},
}

var usUt = &Def{
	ID:   UsUtID,
	Name: UsUtName,
	Segments: []*segment.Def{
		usCore(fields(
			[]field.Def{usVersion()},
			usFlags(
				"SharingNotice",
				"SaleOptOutNotice",
				"TargetedAdvertisingOptOutNotice",
				"SensitiveDataProcessingOptOutNotice",
				"SaleOptOut",
				"TargetedAdvertisingOptOut",
			),
			[]field.Def{usList("SensitiveDataProcessing", 8)},
			usFlags("KnownChildSensitiveDataConsents"),
			mspaFields(),
		)),
	},
}

var usCt = &Def{
	ID:   UsCtID,
	Name: UsCtName,
	Segments: []*segment.Def{
		usCore(fields(
			[]field.Def{usVersion()},
			usFlags(
				"SharingNotice",
				"SaleOptOutNotice",
				"TargetedAdvertisingOptOutNotice",
				"SaleOptOut",
				"TargetedAdvertisingOptOut",
			),
			[]field.Def{
				usList("SensitiveDataProcessing", 8),
				usList("KnownChildSensitiveDataConsents", 3),
			},
			mspaFields(),
		)),
		gpcSegment(),
	},
}
