package field

import (
	"time"

	"github.com/prebid/gpp-codec/bitstring"
	"github.com/spf13/cast"
)

// Boolean is a single bit.
type Boolean struct{}

func (Boolean) Default() any { return false }

func (Boolean) Normalize(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, encodingError("%v", err)
		}
		return b, nil
	}
	n, err := toInt(value)
	if err != nil {
		return nil, err
	}
	if n != 0 && n != 1 {
		return nil, encodingError("%d is not a boolean", n)
	}
	return n == 1, nil
}

func (Boolean) Encode(w *bitstring.Writer, value any, _ *Set) error {
	w.WriteBool(value.(bool))
	return nil
}

func (Boolean) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	return r.ReadBool()
}

// FixedInteger is an unsigned big-endian integer of Width bits. Values which do not fit
// are rejected rather than saturated.
type FixedInteger struct {
	Width int
}

func (k FixedInteger) Default() any { return 0 }

func (k FixedInteger) Normalize(value any) (any, error) {
	v, err := toInt(value)
	if err != nil {
		return nil, err
	}
	if err := k.check(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (k FixedInteger) check(v int) error {
	if v < 0 {
		return encodingError("negative value %d cannot be encoded as a %d bit unsigned integer", v, k.Width)
	}
	if k.Width < 63 && uint64(v) >= uint64(1)<<uint(k.Width) {
		return encodingError("value %d does not fit in %d bits", v, k.Width)
	}
	return nil
}

func (k FixedInteger) Encode(w *bitstring.Writer, value any, _ *Set) error {
	v := value.(int)
	if err := k.check(v); err != nil {
		return err
	}
	w.WriteUint(uint64(v), k.Width)
	return nil
}

func (k FixedInteger) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	v, err := r.ReadUint(k.Width)
	if err != nil {
		return nil, err
	}
	return int(v), nil
}

const charWidth = 6

// FixedString is Length characters A-Z, each stored as 6 bits with 'A' = 0.
type FixedString struct {
	Length int
}

func (k FixedString) Default() any {
	b := make([]byte, k.Length)
	for i := range b {
		b[i] = 'A'
	}
	return string(b)
}

func (k FixedString) Normalize(value any) (any, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, encodingError("%v", err)
	}
	if len(s) != k.Length {
		return nil, encodingError("%q must be exactly %d characters long", s, k.Length)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return nil, encodingError("unencodable character %q in %q", s[i], s)
		}
	}
	return s, nil
}

func (k FixedString) Encode(w *bitstring.Writer, value any, _ *Set) error {
	s := value.(string)
	for i := 0; i < len(s); i++ {
		w.WriteUint(uint64(s[i]-'A'), charWidth)
	}
	return nil
}

func (k FixedString) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	b := make([]byte, k.Length)
	for i := range b {
		v, err := r.ReadUint(charWidth)
		if err != nil {
			return nil, err
		}
		if v > 'Z'-'A' {
			return nil, decodingError("character code %d is outside of A-Z", v)
		}
		b[i] = byte(v) + 'A'
	}
	return string(b), nil
}

// FixedBitfield is Length booleans. Shorter inputs are padded with false.
type FixedBitfield struct {
	Length int
}

func (k FixedBitfield) Default() any { return make([]bool, k.Length) }

func (k FixedBitfield) Normalize(value any) (any, error) {
	v, err := toBoolSlice(value)
	if err != nil {
		return nil, err
	}
	if len(v) > k.Length {
		return nil, encodingError("%d booleans do not fit in a %d bit field", len(v), k.Length)
	}
	out := make([]bool, k.Length)
	copy(out, v)
	return out, nil
}

func (k FixedBitfield) Encode(w *bitstring.Writer, value any, _ *Set) error {
	return writeBools(w, value.([]bool), k.Length)
}

func (k FixedBitfield) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	return readBools(r, k.Length)
}

// FlexibleBitfield is a list of booleans whose length is the current value of the integer
// field named LengthField, which must precede it in the same Set.
type FlexibleBitfield struct {
	LengthField string
}

func (k FlexibleBitfield) Default() any { return []bool{} }

func (k FlexibleBitfield) Normalize(value any) (any, error) {
	return toBoolSlice(value)
}

func (k FlexibleBitfield) Encode(w *bitstring.Writer, value any, set *Set) error {
	length, err := set.Int(k.LengthField)
	if err != nil {
		return err
	}
	return writeBools(w, value.([]bool), length)
}

func (k FlexibleBitfield) Decode(r *bitstring.Reader, set *Set) (any, error) {
	length, err := set.Int(k.LengthField)
	if err != nil {
		return nil, err
	}
	return readBools(r, length)
}

func writeBools(w *bitstring.Writer, v []bool, length int) error {
	if len(v) > length {
		return encodingError("%d booleans do not fit in a %d bit field", len(v), length)
	}
	for i := 0; i < length; i++ {
		w.WriteBool(i < len(v) && v[i])
	}
	return nil
}

func readBools(r *bitstring.Reader, length int) ([]bool, error) {
	out := make([]bool, length)
	for i := range out {
		v, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// FixedIntegerList is Count integers of Width bits each. Shorter inputs are padded with 0.
type FixedIntegerList struct {
	Width int
	Count int
}

func (k FixedIntegerList) Default() any { return make([]int, k.Count) }

func (k FixedIntegerList) Normalize(value any) (any, error) {
	v, err := toIntSlice(value)
	if err != nil {
		return nil, err
	}
	if len(v) > k.Count {
		return nil, encodingError("%d integers do not fit in a list of %d", len(v), k.Count)
	}
	element := FixedInteger{Width: k.Width}
	for _, e := range v {
		if err := element.check(e); err != nil {
			return nil, err
		}
	}
	out := make([]int, k.Count)
	copy(out, v)
	return out, nil
}

func (k FixedIntegerList) Encode(w *bitstring.Writer, value any, set *Set) error {
	v := value.([]int)
	if len(v) > k.Count {
		return encodingError("%d integers do not fit in a list of %d", len(v), k.Count)
	}
	element := FixedInteger{Width: k.Width}
	for i := 0; i < k.Count; i++ {
		e := 0
		if i < len(v) {
			e = v[i]
		}
		if err := element.Encode(w, e, set); err != nil {
			return err
		}
	}
	return nil
}

func (k FixedIntegerList) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	out := make([]int, k.Count)
	for i := range out {
		v, err := r.ReadUint(k.Width)
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

const datetimeWidth = 36

// Datetime is a 36 bit count of deciseconds since the Unix epoch. The zero time.Time
// encodes as 0.
type Datetime struct{}

func (Datetime) Default() any { return time.Time{} }

func (Datetime) Normalize(value any) (any, error) {
	t, err := cast.ToTimeE(value)
	if err != nil {
		return nil, encodingError("%v", err)
	}
	if t.IsZero() {
		return time.Time{}, nil
	}
	ds := deciseconds(t)
	if ds < 0 || ds >= 1<<datetimeWidth {
		return nil, encodingError("%s cannot be encoded as a %d bit datetime", t, datetimeWidth)
	}
	return fromDeciseconds(ds), nil
}

func (Datetime) Encode(w *bitstring.Writer, value any, _ *Set) error {
	t := value.(time.Time)
	if t.IsZero() {
		w.WriteUint(0, datetimeWidth)
		return nil
	}
	ds := deciseconds(t)
	if ds < 0 || ds >= 1<<datetimeWidth {
		return encodingError("%s cannot be encoded as a %d bit datetime", t, datetimeWidth)
	}
	w.WriteUint(uint64(ds), datetimeWidth)
	return nil
}

func (Datetime) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	ds, err := r.ReadUint(datetimeWidth)
	if err != nil {
		return nil, err
	}
	if ds == 0 {
		return time.Time{}, nil
	}
	return fromDeciseconds(int64(ds)), nil
}

func deciseconds(t time.Time) int64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return -1
	}
	return (ms + 50) / 100
}

func fromDeciseconds(ds int64) time.Time {
	return time.UnixMilli(ds * 100).UTC()
}

// Enum is one of a fixed list of string values, bit encoded as its index.
type Enum struct {
	Values []string
	Width  int
}

func (k Enum) Default() any { return k.Values[0] }

func (k Enum) Normalize(value any) (any, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, encodingError("%v", err)
	}
	if k.index(s) < 0 {
		return nil, encodingError("%q is not one of %q", s, k.Values)
	}
	return s, nil
}

func (k Enum) index(s string) int {
	for i, v := range k.Values {
		if v == s {
			return i
		}
	}
	return -1
}

func (k Enum) Encode(w *bitstring.Writer, value any, _ *Set) error {
	i := k.index(value.(string))
	if i < 0 {
		return encodingError("%q is not one of %q", value, k.Values)
	}
	w.WriteUint(uint64(i), k.Width)
	return nil
}

func (k Enum) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	i, err := r.ReadUint(k.Width)
	if err != nil {
		return nil, err
	}
	if i >= uint64(len(k.Values)) {
		return nil, decodingError("enum index %d is outside of %q", i, k.Values)
	}
	return k.Values[i], nil
}
