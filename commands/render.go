package commands

import (
	"github.com/pkg/errors"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	headerKey   = "header"
	sectionsKey = "sections"
)

// Render returns the Model as {"header":{...},"sections":{"<name>":{"<field>":value}}}.
// Sections appear in ID order and fields in alphabetical order, so equal Models render to
// equal bytes.
func Render(m *gpp.Model) ([]byte, error) {
	header, err := m.GetHeader()
	if err != nil {
		return nil, err
	}
	doc, err := sjson.SetBytes([]byte(`{}`), headerKey, header)
	if err != nil {
		return nil, errors.Wrap(err, "render header")
	}
	doc, err = sjson.SetRawBytes(doc, sectionsKey, []byte(`{}`))
	if err != nil {
		return nil, errors.Wrap(err, "render sections")
	}

	object := m.ToObject()
	for _, name := range m.SectionNames() {
		doc, err = sjson.SetBytes(doc, sectionsKey+"."+name, object[name])
		if err != nil {
			return nil, errors.Wrapf(err, "render section %s", name)
		}
	}
	return doc, nil
}

// rawJSON returns the compact JSON form of v, the same form Render writes.
func rawJSON(v any) string {
	doc, err := sjson.SetBytes([]byte(`{}`), "v", v)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(doc, "v").Raw
}
