package section

import (
	"fmt"
	"strconv"

	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/field"
	"github.com/prebid/gpp-codec/segment"
)

var uspFlag = field.Enum{Values: []string{"-", "Y", "N"}, Width: 2}

var uspV1Fields = []string{"Notice", "OptOutSale", "LspaCovered"}

var uspV1 = &Def{
	ID:   UspV1ID,
	Name: UspV1Name,
	Segments: []*segment.Def{
		{
			Name:  "core",
			Codec: uspV1Codec{},
			Fields: []field.Def{
				{Name: "Version", Kind: field.FixedInteger{Width: 6}, Default: 1},
				{Name: "Notice", Kind: uspFlag},
				{Name: "OptOutSale", Kind: uspFlag},
				{Name: "LspaCovered", Kind: uspFlag},
			},
		},
	},
}

// uspV1Codec writes the four character US Privacy string, e.g. "1YNN".
type uspV1Codec struct{}

func (uspV1Codec) Encode(fields *field.Set) (string, error) {
	version, err := fields.Int("Version")
	if err != nil {
		return "", err
	}
	if version > 9 {
		return "", &errortypes.Encoding{
			Message: fmt.Sprintf("us privacy version %d does not fit in one character", version),
		}
	}
	out := []byte(strconv.Itoa(version))
	for _, name := range uspV1Fields {
		v, _ := fields.Get(name)
		out = append(out, v.(string)...)
	}
	return string(out), nil
}

func (uspV1Codec) Decode(token string, fields *field.Set) error {
	if len(token) != 1+len(uspV1Fields) {
		return &errortypes.Decoding{
			Message: fmt.Sprintf("us privacy string %q must be %d characters long", token, 1+len(uspV1Fields)),
		}
	}
	if token[0] < '0' || token[0] > '9' {
		return &errortypes.Decoding{Message: fmt.Sprintf("us privacy version %q is not a digit", token[0])}
	}
	if err := fields.Set("Version", int(token[0]-'0')); err != nil {
		return err
	}
	for i, name := range uspV1Fields {
		if err := fields.Set(name, token[i+1:i+2]); err != nil {
			return &errortypes.Decoding{Message: err.Error()}
		}
	}
	return nil
}
