// Package gpp checks GPP strings against the IAB go-gpp reader, the parser most bid
// stream consumers run, and carries the SID list which travels next to a GPP string.
package gpp

import (
	"fmt"
	"strconv"
	"strings"

	gpplib "github.com/prebid/go-gpp"
	gppConstants "github.com/prebid/go-gpp/constants"
	"github.com/prebid/gpp-codec/errortypes"
	codec "github.com/prebid/gpp-codec/gpp"
)

// Policy represents the GPP privacy string container.
type Policy struct {
	Consent string
	RawSID  string // This is the CSV format ("2,6") that the IAB recommends for passing the SID(s) on a query string.
}

// NewPolicy encodes the Model and lists the sections the string carries as its SID.
func NewPolicy(m *codec.Model) (Policy, error) {
	consent, err := m.Encode()
	if err != nil {
		return Policy{}, err
	}
	header, err := m.GetHeader()
	if err != nil {
		return Policy{}, err
	}
	ids, _ := header["SectionIds"].([]int)
	sids := make([]string, len(ids))
	for i, id := range ids {
		sids[i] = strconv.Itoa(id)
	}
	return Policy{Consent: consent, RawSID: strings.Join(sids, ",")}, nil
}

// ParseSID reads the RawSID list. An empty list yields nil.
func (p Policy) ParseSID() ([]int8, error) {
	if p.RawSID == "" {
		return nil, nil
	}
	parts := strings.Split(p.RawSID, ",")
	sids := make([]int8, 0, len(parts))
	for _, part := range parts {
		sid, err := strconv.ParseInt(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, &errortypes.BadInput{Message: fmt.Sprintf("invalid gpp sid %q", part)}
		}
		sids = append(sids, int8(sid))
	}
	return sids, nil
}

// Validate parses the consent with go-gpp and checks that every section it carries is listed in
// RawSID. Sections listed in RawSID but missing from the string are reported as warnings.
func (p Policy) Validate() (gpplib.GppContainer, []error) {
	container, errs := gpplib.Parse(p.Consent)
	if len(errs) > 0 {
		return container, errs
	}
	sids, err := p.ParseSID()
	if err != nil {
		return container, []error{err}
	}
	if sids == nil {
		return container, nil
	}

	for _, id := range container.SectionTypes {
		if !IsSIDInList(sids, id) {
			errs = append(errs, &errortypes.BadInput{
				Message: fmt.Sprintf("gpp section %d is not listed in the sid %q", id, p.RawSID),
			})
		}
	}
	for _, sid := range sids {
		if IndexOfSID(container, gppConstants.SectionID(sid)) < 0 {
			errs = append(errs, &errortypes.Warning{
				Message:     fmt.Sprintf("gpp sid %d names a section the string does not carry", sid),
				WarningCode: errortypes.SIDMismatchWarningCode,
			})
		}
	}
	return container, errs
}

// IsSIDInList returns true if the 'sid' value is found in the gppSIDs array. Its logic is used in more than
// one place in our codebase, therefore it was decided to make it its own function.
func IsSIDInList(gppSIDs []int8, sid gppConstants.SectionID) bool {
	for _, id := range gppSIDs {
		if id == int8(sid) {
			return true
		}
	}
	return false
}

// IndexOfSID returns a zero or non-negative integer that represents the position of
// the 'sid' value in the 'gpp.SectionTypes' array. If the 'sid' value is not found,
// returns -1.
func IndexOfSID(gpp gpplib.GppContainer, sid gppConstants.SectionID) int {
	for i, id := range gpp.SectionTypes {
		if id == sid {
			return i
		}
	}
	return -1
}
