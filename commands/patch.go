package commands

import (
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/tidwall/gjson"
)

// Patch applies a JSON merge patch (RFC 7386) over the sections of a GPP string and returns
// the re-encoded string. A null section removes the section and a null field resets it to
// its default. Sections the patch leaves alone are not written to.
func Patch(deps Deps, input string, patch []byte) (string, []error) {
	m, err := gpp.Parse(input, deps.modelOptions()...)
	if err != nil {
		return "", []error{err}
	}
	doc, err := Render(m)
	if err != nil {
		return "", []error{err}
	}
	original := gjson.GetBytes(doc, sectionsKey)

	merged, err := jsonpatch.MergePatch([]byte(original.Raw), patch)
	if err != nil {
		return "", []error{&errortypes.BadInput{Message: "invalid merge patch: " + err.Error()}}
	}
	next, errs := parseSections(merged)
	if len(errs) > 0 {
		return "", errs
	}

	errs = applySections(deps, m, original, next)
	if errortypes.ContainsFatalError(errs) {
		return "", errs
	}
	encoded, err := m.Encode()
	if err != nil {
		return "", append(errs, err)
	}
	return encoded, errs
}
