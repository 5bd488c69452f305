// Package segment holds the generic segment type. A segment's layout is declared as data
// in a Def; the section packages only provide field tables.
package segment

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/field"
)

// Def declares one segment of a section.
type Def struct {
	Name   string
	Fields []field.Def
	Codec  Codec
	// Type is the value of the segment type discriminator for sections which tell their
	// segments apart by a leading type field.
	Type int
	// Optional segments are only written when included.
	Optional bool
	// IncludeField names a virtual boolean field which, once assigned, decides whether an
	// optional segment is written.
	IncludeField string
}

// Segment is one encodable unit of a section. The encoded token is cached until a field
// changes.
type Segment struct {
	def    *Def
	fields *field.Set
	token  string
	dirty  bool
}

func New(def *Def) *Segment {
	return &Segment{
		def:    def,
		fields: field.NewSet(def.Fields),
		dirty:  true,
	}
}

func (s *Segment) Name() string {
	return s.def.Name
}

func (s *Segment) Def() *Def {
	return s.def
}

func (s *Segment) HasField(name string) bool {
	return s.fields.Has(name)
}

// FieldNames returns the field names in wire order.
func (s *Segment) FieldNames() []string {
	return s.fields.Names()
}

func (s *Segment) GetFieldValue(name string) (any, error) {
	v, ok := s.fields.Get(name)
	if !ok {
		return nil, &errortypes.UnknownField{
			Message: fmt.Sprintf("segment %s has no field named %s", s.def.Name, name),
		}
	}
	return v, nil
}

func (s *Segment) SetFieldValue(name string, value any) error {
	if err := s.fields.Set(name, value); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Included reports whether the segment belongs in the encoded section.
func (s *Segment) Included() bool {
	if !s.def.Optional {
		return true
	}
	if s.def.IncludeField != "" && s.fields.IsAssigned(s.def.IncludeField) {
		included, _ := s.fields.Get(s.def.IncludeField)
		return included == true
	}
	return s.fields.Assigned()
}

// IsDefault reports whether every field still holds its default.
func (s *Segment) IsDefault() bool {
	return s.fields.IsDefault()
}

// Values returns a copy of the field values keyed by name.
func (s *Segment) Values() map[string]any {
	return s.fields.Values()
}

// Encode returns the segment token, re-encoding only when a field changed since the last
// Encode. A decoded segment is always re-encoded, so the token is canonical.
func (s *Segment) Encode() (string, error) {
	if !s.dirty {
		return s.token, nil
	}
	token, err := s.def.Codec.Encode(s.fields)
	if err != nil {
		return "", errors.Wrapf(err, "segment %s", s.def.Name)
	}
	s.token = token
	s.dirty = false
	return token, nil
}

// Decode replaces every field value with the values read from token. On failure the
// segment is left unchanged and a Decoding error naming the segment is returned.
func (s *Segment) Decode(token string) error {
	if token == "" {
		return &errortypes.Decoding{Message: fmt.Sprintf("segment %s is empty", s.def.Name)}
	}
	fields := field.NewSet(s.def.Fields)
	if err := s.def.Codec.Decode(token, fields); err != nil {
		return asDecoding(errors.Wrapf(err, "segment %s", s.def.Name))
	}
	if s.def.IncludeField != "" {
		if err := fields.Set(s.def.IncludeField, true); err != nil {
			return asDecoding(errors.Wrapf(err, "segment %s", s.def.Name))
		}
	}
	s.fields = fields
	s.token = ""
	s.dirty = true
	return nil
}

// asDecoding makes sure a failure while reading input surfaces as a Decoding error even
// when a codec reported it through another error type.
func asDecoding(err error) error {
	var decodingErr *errortypes.Decoding
	if errors.As(err, &decodingErr) {
		return err
	}
	return &errortypes.Decoding{Message: err.Error()}
}
