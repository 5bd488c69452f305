package commands

import (
	"github.com/prebid/gpp-codec/gpp"
	gpppolicy "github.com/prebid/gpp-codec/privacy/gpp"
)

// Validate reads input with the go-gpp parser and checks it against sid, a comma separated
// section ID list. A blank sid is replaced by the list of sections the string carries.
// It returns the SID list checked along with any errors and warnings.
func Validate(deps Deps, input, sid string) (string, []error) {
	m, err := gpp.Parse(input, deps.modelOptions()...)
	if err != nil {
		return "", []error{err}
	}
	policy, err := gpppolicy.NewPolicy(m)
	if err != nil {
		return "", []error{err}
	}
	if sid != "" {
		policy.RawSID = sid
	}
	_, errs := policy.Validate()
	return policy.RawSID, errs
}
