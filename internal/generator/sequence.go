package generator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrRangeParse is returned for a modifier that is not of the form (lower-upper).
var ErrRangeParse = errors.New("invalid range modifier")

var rangePattern = regexp.MustCompile(`^\((-?\d+)-(-?\d+)\)$`)

// RangeModifier is the parsed form of an INT_RNG modifier such as "(-10-10)".
type RangeModifier struct {
	Lower int
	Upper int
}

// ParseRange parses "(lower-upper)". Either bound may be negative.
func ParseRange(s string) (RangeModifier, error) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return RangeModifier{}, fmt.Errorf("%w: %q", ErrRangeParse, s)
	}

	lower, err := strconv.Atoi(m[1])
	if err != nil {
		return RangeModifier{}, fmt.Errorf("%w: lower bound %q: %v", ErrRangeParse, m[1], err)
	}
	upper, err := strconv.Atoi(m[2])
	if err != nil {
		return RangeModifier{}, fmt.Errorf("%w: upper bound %q: %v", ErrRangeParse, m[2], err)
	}

	return RangeModifier{Lower: lower, Upper: upper}, nil
}

// IncrementalInts returns exactly size integers counting up from start.
//
// An end that precedes start is replaced by start+size. The values run from
// start towards end and, when end is reached first, keep counting until size
// values exist, so the result is always start, start+1, ... with len == size.
func IncrementalInts(size, start, end int) []int64 {
	if size <= 0 {
		return []int64{}
	}
	if end-start < 0 {
		end = start + size
	}

	out := make([]int64, 0, size)
	for v := start; v < end && len(out) < size; v++ {
		out = append(out, int64(v))
	}
	for len(out) < size {
		out = append(out, int64(start+len(out)))
	}
	return out
}
