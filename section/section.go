// Package section implements the generic GPP section and ships the section registry.
// Every supported profile is a declarative table of segments and fields; the table is the
// wire contract.
package section

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/prebid/gpp-codec/base64url"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/segment"
)

// Def declares one section profile.
type Def struct {
	ID       int
	Name     string
	Segments []*segment.Def
	// SegmentTypeWidth is the width of the leading type field which identifies each token
	// after the first. The first token is always the first segment. Zero means tokens map
	// to segments by position.
	SegmentTypeWidth int

	fieldSegment map[string]int
}

// segmentOf returns the index of the segment declaring the named field.
func (d *Def) segmentOf(name string) (int, bool) {
	i, ok := d.fieldSegment[name]
	return i, ok
}

func (d *Def) index() {
	d.fieldSegment = make(map[string]int)
	for i, seg := range d.Segments {
		for _, f := range seg.Fields {
			if _, dup := d.fieldSegment[f.Name]; dup {
				panic(fmt.Sprintf("section %s declares field %s twice", d.Name, f.Name))
			}
			d.fieldSegment[f.Name] = i
		}
	}
}

// FieldNames returns every field name of the section, segment by segment in wire order.
func (d *Def) FieldNames() []string {
	var names []string
	for _, seg := range d.Segments {
		for _, f := range seg.Fields {
			names = append(names, f.Name)
		}
	}
	return names
}

// Section is one profile's worth of signal. It exclusively owns its segments.
type Section struct {
	def      *Def
	segments []*segment.Segment
}

func New(def *Def) *Section {
	s := &Section{
		def:      def,
		segments: make([]*segment.Segment, len(def.Segments)),
	}
	for i, seg := range def.Segments {
		s.segments[i] = segment.New(seg)
	}
	return s
}

func (s *Section) ID() int {
	return s.def.ID
}

func (s *Section) Name() string {
	return s.def.Name
}

func (s *Section) Def() *Def {
	return s.def
}

func (s *Section) HasField(name string) bool {
	_, ok := s.def.segmentOf(name)
	return ok
}

func (s *Section) GetFieldValue(name string) (any, error) {
	i, ok := s.def.segmentOf(name)
	if !ok {
		return nil, s.unknownField(name)
	}
	return s.segments[i].GetFieldValue(name)
}

func (s *Section) SetFieldValue(name string, value any) error {
	i, ok := s.def.segmentOf(name)
	if !ok {
		return s.unknownField(name)
	}
	return errors.Wrapf(s.segments[i].SetFieldValue(name, value), "section %s", s.def.Name)
}

func (s *Section) unknownField(name string) error {
	return &errortypes.UnknownField{
		Message: fmt.Sprintf("section %s has no field named %s", s.def.Name, name),
	}
}

// IsEmpty reports whether the section carries no signal: every required segment holds
// only defaults and no optional segment is included.
func (s *Section) IsEmpty() bool {
	for _, seg := range s.segments {
		if seg.Def().Optional {
			if seg.Included() {
				return false
			}
			continue
		}
		if !seg.IsDefault() {
			return false
		}
	}
	return true
}

// Encode joins the tokens of the included segments with '.'.
func (s *Section) Encode() (string, error) {
	tokens := make([]string, 0, len(s.segments))
	for _, seg := range s.segments {
		if !seg.Included() {
			continue
		}
		token, err := seg.Encode()
		if err != nil {
			return "", errors.Wrapf(err, "section %s", s.def.Name)
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, "."), nil
}

// Decode replaces the section's content with the segments read from token. Either every
// segment decodes or the section is left unchanged.
func (s *Section) Decode(token string) error {
	fresh := New(s.def)
	if err := fresh.decodeSegments(strings.Split(token, ".")); err != nil {
		return errors.Wrapf(err, "section %s", s.def.Name)
	}
	s.segments = fresh.segments
	return nil
}

func (s *Section) decodeSegments(tokens []string) error {
	if s.def.SegmentTypeWidth == 0 {
		if len(tokens) > len(s.segments) {
			return &errortypes.Decoding{
				Message: fmt.Sprintf("found %d segments but at most %d are defined", len(tokens), len(s.segments)),
			}
		}
		for i, token := range tokens {
			if err := s.segments[i].Decode(token); err != nil {
				return err
			}
		}
		return nil
	}

	seen := make([]bool, len(s.segments))
	for n, token := range tokens {
		i := 0
		if n > 0 {
			segmentType, err := peekSegmentType(token, s.def.SegmentTypeWidth)
			if err != nil {
				return err
			}
			if i = s.segmentByType(segmentType); i < 0 {
				return &errortypes.Decoding{Message: fmt.Sprintf("unknown segment type %d", segmentType)}
			}
		}
		if seen[i] {
			return &errortypes.Decoding{Message: fmt.Sprintf("segment %s appears twice", s.segments[i].Name())}
		}
		seen[i] = true
		if err := s.segments[i].Decode(token); err != nil {
			return err
		}
	}
	for i, seg := range s.segments {
		if !seg.Def().Optional && !seen[i] {
			return &errortypes.Decoding{Message: fmt.Sprintf("required segment %s is missing", seg.Name())}
		}
	}
	return nil
}

func (s *Section) segmentByType(segmentType int) int {
	for i, seg := range s.def.Segments {
		if seg.Type == segmentType {
			return i
		}
	}
	return -1
}

// peekSegmentType reads the leading type field from the first character of a token. All
// base64url variants share the alphabet, so one character always yields 6 bits.
func peekSegmentType(token string, width int) (int, error) {
	if token == "" {
		return 0, &errortypes.Decoding{Message: "empty segment"}
	}
	bits, err := base64url.Compressed{}.Decode(token[:1])
	if err != nil {
		return 0, err
	}
	v := 0
	for i := 0; i < width; i++ {
		v <<= 1
		if bits.Bit(i) {
			v |= 1
		}
	}
	return v, nil
}

// ToObject returns the field values of every segment keyed by field name.
func (s *Section) ToObject() map[string]any {
	out := make(map[string]any)
	for _, seg := range s.segments {
		for name, value := range seg.Values() {
			out[name] = value
		}
	}
	return out
}

// Segments returns the names of the segments which would be encoded.
func (s *Section) Segments() []string {
	var names []string
	for _, seg := range s.segments {
		if seg.Included() {
			names = append(names, seg.Name())
		}
	}
	return names
}
