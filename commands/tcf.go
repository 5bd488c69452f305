package commands

import (
	"strconv"

	"github.com/prebid/go-gdpr/consentconstants"
	"github.com/prebid/gpp-codec/gdpr"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/tidwall/sjson"
)

// TCF hands the TCF EU v2 section of input to go-gdpr and renders what it reads: the CMP
// and list metadata plus, for each of vendors, whether the vendor may process data for
// purpose.
func TCF(deps Deps, input string, purpose int, vendors []int) ([]byte, error) {
	m, err := gpp.Parse(input, deps.modelOptions()...)
	if err != nil {
		return nil, err
	}
	pc, err := gdpr.FromModel(m)
	if err != nil {
		return nil, err
	}
	meta := pc.ConsentMetadata()

	values := []struct {
		path  string
		value any
	}{
		{"cmpId", meta.CmpID()},
		{"cmpVersion", meta.CmpVersion()},
		{"consentScreen", meta.ConsentScreen()},
		{"consentLanguage", meta.ConsentLanguage()},
		{"vendorListVersion", pc.ListVersion()},
		{"specVersion", pc.SpecVersion()},
		{"maxVendorId", meta.MaxVendorID()},
		{"purpose", purpose},
	}
	doc := []byte(`{}`)
	for _, v := range values {
		if doc, err = sjson.SetBytes(doc, v.path, v.value); err != nil {
			return nil, err
		}
	}
	doc, err = sjson.SetRawBytes(doc, "vendors", []byte(`{}`))
	if err != nil {
		return nil, err
	}
	for _, vendor := range vendors {
		allowed := pc.VendorAllowed(uint16(vendor), consentconstants.Purpose(purpose))
		if doc, err = sjson.SetBytes(doc, "vendors."+strconv.Itoa(vendor), allowed); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
