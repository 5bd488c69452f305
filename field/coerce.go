package field

import (
	"math"
	"sort"

	"github.com/spf13/cast"
)

// toInt accepts any integer type, integral floats (as produced by JSON decoding) and
// numeric strings.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, encodingError("%v is not an integer", v)
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, encodingError("%v is not an integer", v)
		}
	case bool:
		return 0, encodingError("%v is not an integer", v)
	}
	i, err := cast.ToIntE(value)
	if err != nil {
		return 0, encodingError("%v", err)
	}
	return i, nil
}

func toIntSlice(value any) ([]int, error) {
	switch v := value.(type) {
	case nil:
		return []int{}, nil
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]int, len(v))
		for i, e := range v {
			n, err := toInt(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	out, err := cast.ToIntSliceE(value)
	if err != nil {
		return nil, encodingError("%v", err)
	}
	return out, nil
}

func toBoolSlice(value any) ([]bool, error) {
	switch v := value.(type) {
	case nil:
		return []bool{}, nil
	case []bool:
		out := make([]bool, len(v))
		copy(out, v)
		return out, nil
	}
	out, err := cast.ToBoolSliceE(value)
	if err != nil {
		return nil, encodingError("%v", err)
	}
	return out, nil
}

// sortedUnique returns ids sorted ascending without duplicates, checking every id lies in
// [min, max].
func sortedUnique(ids []int, min, max int) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < min || id > max {
			return nil, encodingError("id %d is outside of [%d, %d]", id, min, max)
		}
		out = append(out, id)
	}
	sort.Ints(out)
	n := 0
	for i, id := range out {
		if i > 0 && id == out[n-1] {
			continue
		}
		out[n] = id
		n++
	}
	return out[:n], nil
}

// groups splits sorted unique ids into runs of consecutive values.
func groups(ids []int) [][]int {
	var out [][]int
	for i, id := range ids {
		if i > 0 && id == ids[i-1]+1 {
			out[len(out)-1] = append(out[len(out)-1], id)
			continue
		}
		out = append(out, []int{id})
	}
	return out
}
