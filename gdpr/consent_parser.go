package gdpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prebid/go-gdpr/api"
	"github.com/prebid/go-gdpr/consentconstants"
	"github.com/prebid/go-gdpr/vendorconsent"
	tcf2 "github.com/prebid/go-gdpr/vendorconsent/tcf2"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/prebid/gpp-codec/section"
)

// ParsedConsent represents a parsed consent string containing notable version information and a convenient
// metadata object that allows easy examination of encoded purpose and vendor information
type ParsedConsent struct {
	encodingVersion uint8
	specVersion     uint16
	listVersion     uint16
	consentMeta     tcf2.ConsentMetadata
}

func (pc ParsedConsent) EncodingVersion() uint8 {
	return pc.encodingVersion
}

// SpecVersion is the GVL specification version matching the TCF policy version.
func (pc ParsedConsent) SpecVersion() uint16 {
	return pc.specVersion
}

func (pc ParsedConsent) ListVersion() uint16 {
	return pc.listVersion
}

func (pc ParsedConsent) ConsentMetadata() tcf2.ConsentMetadata {
	return pc.consentMeta
}

// VendorAllowed reports whether the vendor has consent and the user consented to the purpose.
func (pc ParsedConsent) VendorAllowed(vendorID uint16, purpose consentconstants.Purpose) bool {
	return pc.consentMeta.VendorConsent(vendorID) && pc.consentMeta.PurposeAllowed(purpose)
}

// ParseConsent parses and validates the specified consent string returning an instance of ParsedConsent
func ParseConsent(consent string) (ParsedConsent, error) {
	pc := ParsedConsent{}

	parsedConsent, err := vendorconsent.ParseString(consent)
	if err != nil {
		err = &ErrorMalformedConsent{
			Consent: consent,
			Cause:   err,
		}
		return pc, err
	}

	err = validateVersions(parsedConsent)
	if err != nil {
		err = &ErrorMalformedConsent{
			Consent: consent,
			Cause:   err,
		}
		return pc, err
	}

	pc.encodingVersion = parsedConsent.Version()
	pc.specVersion = getSpecVersion(parsedConsent.TCFPolicyVersion())
	pc.listVersion = parsedConsent.VendorListVersion()
	cm, ok := parsedConsent.(tcf2.ConsentMetadata)
	if !ok {
		err = errors.New("Unable to access TCF2 parsed consent")
		return pc, err
	}
	pc.consentMeta = cm

	return pc, nil
}

// FromModel parses the core segment of the Model's TCF EU v2 section. go-gdpr reads the
// core segment only; the optional segments are dropped.
func FromModel(m *gpp.Model) (ParsedConsent, error) {
	if !m.HasSection(section.TcfEuV2Name) {
		return ParsedConsent{}, &errortypes.UnknownSection{
			Message: fmt.Sprintf("gpp string carries no %s section", section.TcfEuV2Name),
		}
	}
	token, err := m.EncodeSection(section.TcfEuV2Name)
	if err != nil {
		return ParsedConsent{}, err
	}
	core, _, _ := strings.Cut(token, ".")
	return ParseConsent(core)
}

// validateVersions ensures that certain version fields in the consent string contain valid values.
// An error is returned if at least one of them is invalid
func validateVersions(pc api.VendorConsents) (err error) {
	version := pc.Version()
	if version != 2 {
		return fmt.Errorf("invalid encoding format version: %d", version)
	}
	return
}

// getSpecVersion looks at the TCF policy version and determines the corresponding GVL specification
// version that should be used to calculate legal basis.
func getSpecVersion(policyVersion uint8) uint16 {
	if policyVersion >= 4 {
		return 3
	}
	return 2
}
