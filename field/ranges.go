package field

import (
	"github.com/prebid/gpp-codec/bitstring"
	"github.com/spf13/cast"
)

const (
	rangeCountWidth = 12
	rangeIDWidth    = 16
	maxRangeID      = 1<<rangeIDWidth - 1
	maxRangeEntries = 1<<rangeCountWidth - 1
	// maxArrayOfRangesIDs bounds the ids held by all entries of one ArrayOfRanges.
	maxArrayOfRangesIDs = maxRangeID + 1
)

// FixedIntegerRange is a set of ids written as a 12 bit entry count followed by entries
// which are either a single 16 bit id ("0") or a 16 bit start and end ("1").
type FixedIntegerRange struct{}

func (FixedIntegerRange) Default() any { return []int{} }

func (FixedIntegerRange) Normalize(value any) (any, error) {
	v, err := toIntSlice(value)
	if err != nil {
		return nil, err
	}
	ids, err := sortedUnique(v, 0, maxRangeID)
	if err != nil {
		return nil, err
	}
	if len(groups(ids)) > maxRangeEntries {
		return nil, encodingError("%d ids need more than %d range entries", len(ids), maxRangeEntries)
	}
	return ids, nil
}

func (FixedIntegerRange) Encode(w *bitstring.Writer, value any, _ *Set) error {
	return writeIntegerRange(w, value.([]int))
}

func (FixedIntegerRange) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	return readIntegerRange(r)
}

func writeIntegerRange(w *bitstring.Writer, ids []int) error {
	runs := groups(ids)
	if len(runs) > maxRangeEntries {
		return encodingError("%d ids need more than %d range entries", len(ids), maxRangeEntries)
	}
	w.WriteUint(uint64(len(runs)), rangeCountWidth)
	for _, run := range runs {
		if len(run) == 1 {
			w.WriteBool(false)
			w.WriteUint(uint64(run[0]), rangeIDWidth)
			continue
		}
		w.WriteBool(true)
		w.WriteUint(uint64(run[0]), rangeIDWidth)
		w.WriteUint(uint64(run[len(run)-1]), rangeIDWidth)
	}
	return nil
}

func integerRangeWidth(ids []int) int {
	width := rangeCountWidth
	for _, run := range groups(ids) {
		if len(run) == 1 {
			width += 1 + rangeIDWidth
		} else {
			width += 1 + 2*rangeIDWidth
		}
	}
	return width
}

// readIntegerRange reads the entries of a FixedIntegerRange. Entries must be ascending and
// must not overlap, so the result is sorted, unique and never holds more than
// maxRangeID+1 ids.
func readIntegerRange(r *bitstring.Reader) ([]int, error) {
	count, err := r.ReadUint(rangeCountWidth)
	if err != nil {
		return nil, err
	}
	ids := []int{}
	next := uint64(0)
	for i := uint64(0); i < count; i++ {
		isRange, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		start, err := r.ReadUint(rangeIDWidth)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = r.ReadUint(rangeIDWidth); err != nil {
				return nil, err
			}
			if end < start {
				return nil, decodingError("range entry %d ends at %d before its start %d", i, end, start)
			}
		}
		if start < next {
			return nil, decodingError("range entry %d starts at %d, before the end of the previous entry", i, start)
		}
		for id := start; id <= end; id++ {
			ids = append(ids, int(id))
		}
		next = end + 1
	}
	return ids, nil
}

// OptimizedFixedRange is a set of ids >= 1 written as a 16 bit max id and a 1 bit
// discriminator followed by whichever is shorter: a FixedIntegerRange ("1") or a bitfield
// of max bits where bit i flags id i+1 ("0").
type OptimizedFixedRange struct{}

func (OptimizedFixedRange) Default() any { return []int{} }

func (OptimizedFixedRange) Normalize(value any) (any, error) {
	v, err := toIntSlice(value)
	if err != nil {
		return nil, err
	}
	return sortedUnique(v, 1, maxRangeID)
}

func (OptimizedFixedRange) Encode(w *bitstring.Writer, value any, _ *Set) error {
	ids := value.([]int)
	max := 0
	if len(ids) > 0 {
		max = ids[len(ids)-1]
	}
	w.WriteUint(uint64(max), rangeIDWidth)
	if integerRangeWidth(ids) < max {
		w.WriteBool(true)
		return writeIntegerRange(w, ids)
	}
	w.WriteBool(false)
	next := 0
	for id := 1; id <= max; id++ {
		included := next < len(ids) && ids[next] == id
		if included {
			next++
		}
		w.WriteBool(included)
	}
	return nil
}

func (OptimizedFixedRange) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	max, err := r.ReadUint(rangeIDWidth)
	if err != nil {
		return nil, err
	}
	isRange, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if isRange {
		ids, err := readIntegerRange(r)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 && (ids[0] == 0 || uint64(ids[len(ids)-1]) > max) {
			return nil, decodingError("range ids [%d, %d] fall outside of [1, %d]", ids[0], ids[len(ids)-1], max)
		}
		return ids, nil
	}
	ids := []int{}
	for id := uint64(1); id <= max; id++ {
		set, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		if set {
			ids = append(ids, int(id))
		}
	}
	return ids, nil
}

// FibonacciIntegerRange is a set of ids >= 1 written as a 12 bit entry count followed by
// entries holding Fibonacci coded deltas from the previous entry's end.
type FibonacciIntegerRange struct{}

func (FibonacciIntegerRange) Default() any { return []int{} }

func (FibonacciIntegerRange) Normalize(value any) (any, error) {
	v, err := toIntSlice(value)
	if err != nil {
		return nil, err
	}
	ids, err := sortedUnique(v, 1, maxRangeID)
	if err != nil {
		return nil, err
	}
	if len(groups(ids)) > maxRangeEntries {
		return nil, encodingError("%d ids need more than %d range entries", len(ids), maxRangeEntries)
	}
	return ids, nil
}

func (FibonacciIntegerRange) Encode(w *bitstring.Writer, value any, _ *Set) error {
	runs := groups(value.([]int))
	if len(runs) > maxRangeEntries {
		return encodingError("%d range entries exceed the maximum of %d", len(runs), maxRangeEntries)
	}
	w.WriteUint(uint64(len(runs)), rangeCountWidth)
	offset := 0
	for _, run := range runs {
		start, end := run[0], run[len(run)-1]
		if start-offset < 1 {
			return encodingError("id %d cannot follow %d in a fibonacci range", start, offset)
		}
		if len(run) == 1 {
			w.WriteBool(false)
			writeFibonacci(w, start-offset)
		} else {
			w.WriteBool(true)
			writeFibonacci(w, start-offset)
			writeFibonacci(w, end-start)
		}
		offset = end
	}
	return nil
}

func (FibonacciIntegerRange) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	count, err := r.ReadUint(rangeCountWidth)
	if err != nil {
		return nil, err
	}
	ids := []int{}
	offset := 0
	for i := uint64(0); i < count; i++ {
		isRange, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		delta, err := readFibonacci(r)
		if err != nil {
			return nil, err
		}
		start := offset + delta
		end := start
		if isRange {
			length, err := readFibonacci(r)
			if err != nil {
				return nil, err
			}
			end = start + length
		}
		if end > maxRangeID {
			return nil, decodingError("fibonacci range id %d exceeds %d", end, maxRangeID)
		}
		for id := start; id <= end; id++ {
			ids = append(ids, id)
		}
		offset = end
	}
	return ids, nil
}

// writeFibonacci writes the Zeckendorf representation of n >= 1, least significant term
// first, terminated by an extra 1 bit.
func writeFibonacci(w *bitstring.Writer, n int) {
	fib := []int{1, 2}
	for fib[len(fib)-1] <= n {
		fib = append(fib, fib[len(fib)-1]+fib[len(fib)-2])
	}
	fib = fib[:len(fib)-1]
	bits := make([]bool, len(fib))
	for i, rem := len(fib)-1, n; i >= 0; i-- {
		if fib[i] <= rem {
			bits[i] = true
			rem -= fib[i]
		}
	}
	for _, b := range bits {
		w.WriteBool(b)
	}
	w.WriteBool(true)
}

func readFibonacci(r *bitstring.Reader) (int, error) {
	a, b := 1, 2
	n := 0
	prev := false
	for {
		bit, err := r.ReadBool()
		if err != nil {
			return 0, err
		}
		if bit && prev {
			return n, nil
		}
		if bit {
			n += a
			if n > maxRangeID {
				return 0, decodingError("fibonacci value exceeds %d", maxRangeID)
			}
		}
		prev = bit
		a, b = b, a+b
	}
}

// RangeEntry is one publisher restriction: a key (purpose id), a restriction type and the
// ids it applies to.
type RangeEntry struct {
	Key  int   `json:"key"`
	Type int   `json:"type"`
	IDs  []int `json:"ids"`
}

// ArrayOfRanges is a list of RangeEntry written as a 12 bit count followed by, per entry,
// a KeyWidth bit key, a TypeWidth bit type and a FixedIntegerRange.
type ArrayOfRanges struct {
	KeyWidth  int
	TypeWidth int
}

func (ArrayOfRanges) Default() any { return []RangeEntry{} }

func (k ArrayOfRanges) Normalize(value any) (any, error) {
	var entries []RangeEntry
	switch v := value.(type) {
	case nil:
		entries = []RangeEntry{}
	case []RangeEntry:
		entries = v
	case []any:
		for _, e := range v {
			entry, err := toRangeEntry(e)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	default:
		return nil, encodingError("unable to cast %#v of type %T to []RangeEntry", value, value)
	}
	if len(entries) > maxRangeEntries {
		return nil, encodingError("%d range entries exceed the maximum of %d", len(entries), maxRangeEntries)
	}
	keyKind := FixedInteger{Width: k.KeyWidth}
	typeKind := FixedInteger{Width: k.TypeWidth}
	out := make([]RangeEntry, 0, len(entries))
	total := 0
	for _, e := range entries {
		if err := keyKind.check(e.Key); err != nil {
			return nil, err
		}
		if err := typeKind.check(e.Type); err != nil {
			return nil, err
		}
		ids, err := FixedIntegerRange{}.Normalize(e.IDs)
		if err != nil {
			return nil, err
		}
		total += len(ids.([]int))
		if total > maxArrayOfRangesIDs {
			return nil, encodingError("range entries hold more than %d ids", maxArrayOfRangesIDs)
		}
		out = append(out, RangeEntry{Key: e.Key, Type: e.Type, IDs: ids.([]int)})
	}
	return out, nil
}

func toRangeEntry(value any) (RangeEntry, error) {
	if e, ok := value.(RangeEntry); ok {
		return e, nil
	}
	m, err := cast.ToStringMapE(value)
	if err != nil {
		return RangeEntry{}, encodingError("%v", err)
	}
	key, err := toInt(m["key"])
	if err != nil {
		return RangeEntry{}, err
	}
	restrictionType, err := toInt(m["type"])
	if err != nil {
		return RangeEntry{}, err
	}
	ids, err := toIntSlice(m["ids"])
	if err != nil {
		return RangeEntry{}, err
	}
	return RangeEntry{Key: key, Type: restrictionType, IDs: ids}, nil
}

func (k ArrayOfRanges) Encode(w *bitstring.Writer, value any, _ *Set) error {
	entries := value.([]RangeEntry)
	w.WriteUint(uint64(len(entries)), rangeCountWidth)
	for _, e := range entries {
		w.WriteUint(uint64(e.Key), k.KeyWidth)
		w.WriteUint(uint64(e.Type), k.TypeWidth)
		if err := writeIntegerRange(w, e.IDs); err != nil {
			return err
		}
	}
	return nil
}

func (k ArrayOfRanges) Decode(r *bitstring.Reader, _ *Set) (any, error) {
	count, err := r.ReadUint(rangeCountWidth)
	if err != nil {
		return nil, err
	}
	entries := []RangeEntry{}
	total := 0
	for i := uint64(0); i < count; i++ {
		key, err := r.ReadUint(k.KeyWidth)
		if err != nil {
			return nil, err
		}
		restrictionType, err := r.ReadUint(k.TypeWidth)
		if err != nil {
			return nil, err
		}
		ids, err := readIntegerRange(r)
		if err != nil {
			return nil, err
		}
		if total += len(ids); total > maxArrayOfRangesIDs {
			return nil, decodingError("range entries hold more than %d ids", maxArrayOfRangesIDs)
		}
		entries = append(entries, RangeEntry{Key: int(key), Type: int(restrictionType), IDs: ids})
	}
	return entries, nil
}
