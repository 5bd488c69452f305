package commands

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff decodes two GPP strings and returns a line-oriented diff of their JSON renderings.
// The result is empty when both strings carry the same header and sections.
func Diff(deps Deps, left, right string) (string, error) {
	leftDoc, err := Decode(deps, left)
	if err != nil {
		return "", errors.Wrap(err, "left")
	}
	rightDoc, err := Decode(deps, right)
	if err != nil {
		return "", errors.Wrap(err, "right")
	}

	d, err := gojsondiff.New().Compare(leftDoc, rightDoc)
	if err != nil {
		return "", err
	}
	if !d.Modified() {
		return "", nil
	}

	var leftObject map[string]interface{}
	if err := json.Unmarshal(leftDoc, &leftObject); err != nil {
		return "", err
	}
	return formatter.NewAsciiFormatter(leftObject, formatter.AsciiFormatterConfig{ShowArrayIndex: true}).Format(d)
}
