package field

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/prebid/gpp-codec/bitstring"
	"github.com/prebid/gpp-codec/errortypes"
)

// Set is the ordered field list of one segment with the current value of every field.
// The order of the definitions is the wire order.
type Set struct {
	defs     []Def
	index    map[string]int
	values   []any
	assigned []bool
}

// NewSet creates a Set holding the default value of every definition.
func NewSet(defs []Def) *Set {
	s := &Set{
		defs:     defs,
		index:    make(map[string]int, len(defs)),
		values:   make([]any, len(defs)),
		assigned: make([]bool, len(defs)),
	}
	for i, d := range defs {
		if _, dup := s.index[d.Name]; dup {
			panic(fmt.Sprintf("field %s is declared twice", d.Name))
		}
		s.index[d.Name] = i
		s.values[i] = d.defaultValue()
	}
	return s
}

// Names returns the field names in wire order.
func (s *Set) Names() []string {
	names := make([]string, len(s.defs))
	for i, d := range s.defs {
		names[i] = d.Name
	}
	return names
}

func (s *Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Get returns the current value of the named field.
func (s *Set) Get(name string) (any, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return copyValue(s.values[i]), true
}

// Int returns the current value of an integer field.
func (s *Set) Int(name string) (int, error) {
	v, ok := s.Get(name)
	if !ok {
		return 0, &errortypes.UnknownField{Message: fmt.Sprintf("no field named %s", name)}
	}
	n, ok := v.(int)
	if !ok {
		return 0, encodingError("field %s holds %T, not an integer", name, v)
	}
	return n, nil
}

// Set assigns a value to the named field after coercing it to the field's kind.
func (s *Set) Set(name string, value any) error {
	i, ok := s.index[name]
	if !ok {
		return &errortypes.UnknownField{Message: fmt.Sprintf("no field named %s", name)}
	}
	v, err := s.defs[i].Kind.Normalize(value)
	if err != nil {
		return errors.Wrapf(err, "field %s", name)
	}
	if d := s.defs[i]; d.ReadOnly && !reflect.DeepEqual(v, d.defaultValue()) {
		return encodingError("field %s is fixed to %v", name, d.defaultValue())
	}
	s.values[i] = v
	s.assigned[i] = true
	return nil
}

// IsAssigned reports whether the named field was set by a caller or by decoding.
func (s *Set) IsAssigned(name string) bool {
	i, ok := s.index[name]
	return ok && s.assigned[i]
}

// Assigned reports whether any field was set by a caller or by decoding.
func (s *Set) Assigned() bool {
	for _, a := range s.assigned {
		if a {
			return true
		}
	}
	return false
}

// IsDefault reports whether every field holds its default value.
func (s *Set) IsDefault() bool {
	for i, d := range s.defs {
		if !reflect.DeepEqual(s.values[i], d.defaultValue()) {
			return false
		}
	}
	return true
}

// Reset restores every field to its default and clears the assigned flags.
func (s *Set) Reset() {
	for i, d := range s.defs {
		s.values[i] = d.defaultValue()
		s.assigned[i] = false
	}
}

// Encode writes every non virtual field in declared order.
func (s *Set) Encode(w *bitstring.Writer) error {
	for i, d := range s.defs {
		if d.Virtual {
			continue
		}
		if err := d.Kind.Encode(w, s.values[i], s); err != nil {
			return errors.Wrapf(err, "field %s", d.Name)
		}
	}
	return nil
}

// Decode reads every non virtual field in declared order. Each field sees the values
// decoded before it. On failure the Set is left unchanged.
func (s *Set) Decode(r *bitstring.Reader) error {
	scratch := NewSet(s.defs)
	for i, d := range s.defs {
		if d.Virtual {
			scratch.values[i] = s.values[i]
			scratch.assigned[i] = s.assigned[i]
			continue
		}
		v, err := d.Kind.Decode(r, scratch)
		if err != nil {
			return errors.Wrapf(err, "field %s", d.Name)
		}
		if d.ReadOnly && !reflect.DeepEqual(v, d.defaultValue()) {
			return decodingError("field %s must be %v. Got %v", d.Name, d.defaultValue(), v)
		}
		scratch.values[i] = v
		scratch.assigned[i] = true
	}
	s.values = scratch.values
	s.assigned = scratch.assigned
	return nil
}

// Values returns a copy of the name to value mapping.
func (s *Set) Values() map[string]any {
	out := make(map[string]any, len(s.defs))
	for i, d := range s.defs {
		out[d.Name] = copyValue(s.values[i])
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case []int:
		return append([]int{}, t...)
	case []bool:
		return append([]bool{}, t...)
	case []RangeEntry:
		out := make([]RangeEntry, len(t))
		for i, e := range t {
			out[i] = RangeEntry{Key: e.Key, Type: e.Type, IDs: append([]int{}, e.IDs...)}
		}
		return out
	}
	return v
}
