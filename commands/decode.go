package commands

import (
	"strings"

	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/gpp"
)

// Decode parses a GPP string and renders it as JSON.
func Decode(deps Deps, input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &errortypes.BadInput{Message: "no gpp string given"}
	}
	m, err := gpp.Parse(input, deps.modelOptions()...)
	if err != nil {
		return nil, err
	}
	return Render(m)
}
