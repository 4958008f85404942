package core

// delete.go resolves the textual delete-target expression into row positions.
//
// Grammar, first match wins:
//
//	random       a random subset of positions
//	N            a single position
//	LO-HI        every position from LO to HI inclusive (either may be negative)
//	A,B,C        an explicit list; every item must be an integer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// ErrDeleteTarget is returned for a delete expression no rule accepts.
var ErrDeleteTarget = errors.New("invalid delete target")

const randomKeyword = "random"

var deleteRangePattern = regexp.MustCompile(`^(-?\d+)-(-?\d+)$`)

// DeleteTarget is a parsed delete expression.
// The variants are SingleIndex, IndexList, InclusiveRange and RandomSubset.
type DeleteTarget interface {
	// Resolve converts the target to concrete positions for a table of rowCount rows.
	Resolve(rowCount int) IndexSet

	deleteTarget()
}

// SingleIndex removes one position.
type SingleIndex int

// IndexList removes each listed position.
type IndexList []int

// InclusiveRange removes positions Lo through Hi. Empty when Lo > Hi.
type InclusiveRange struct {
	Lo int
	Hi int
}

// RandomSubset removes a random number of randomly drawn positions.
type RandomSubset struct{}

func (SingleIndex) deleteTarget()    {}
func (IndexList) deleteTarget()      {}
func (InclusiveRange) deleteTarget() {}
func (RandomSubset) deleteTarget()   {}

// Resolve implements DeleteTarget.
func (s SingleIndex) Resolve(int) IndexSet {
	return NewIndexSet(int(s))
}

// Resolve implements DeleteTarget.
func (l IndexList) Resolve(int) IndexSet {
	return NewIndexSet(l...)
}

// Resolve implements DeleteTarget. The set holds every integer from Lo to Hi,
// kept as a span so wide ranges cost nothing; it is empty when Lo > Hi.
func (r InclusiveRange) Resolve(int) IndexSet {
	if r.Lo > r.Hi {
		return IndexSet{}
	}
	return IndexSet{spans: []InclusiveRange{r}}
}

// Resolve implements DeleteTarget.
//
// It draws a count in [1, rowCount], then that many positions in
// [0, rowCount]. The upper bound includes rowCount itself, which matches no
// row. An empty table yields an empty set.
func (RandomSubset) Resolve(rowCount int) IndexSet {
	if rowCount <= 0 {
		return IndexSet{}
	}
	count := rand.IntN(rowCount) + 1
	positions := make([]int, count)
	for i := range positions {
		positions[i] = rand.IntN(rowCount + 1)
	}
	return NewIndexSet(positions...)
}

// ParseDeleteTarget parses a delete expression.
func ParseDeleteTarget(text string) (DeleteTarget, error) {
	if text == randomKeyword {
		return RandomSubset{}, nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		return SingleIndex(n), nil
	}

	if m := deleteRangePattern.FindStringSubmatch(text); m != nil {
		lo, loErr := strconv.Atoi(m[1])
		hi, hiErr := strconv.Atoi(m[2])
		if loErr == nil && hiErr == nil {
			return InclusiveRange{Lo: lo, Hi: hi}, nil
		}
	}

	pieces := strings.Split(text, ",")
	list := make(IndexList, 0, len(pieces))
	for _, piece := range pieces {
		n, err := strconv.Atoi(strings.TrimSpace(piece))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: item %q is not an integer", ErrDeleteTarget, text, piece)
		}
		list = append(list, n)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrDeleteTarget, text)
	}

	return list, nil
}

// ResolveDeleteTarget parses text and resolves it against a table of rowCount rows.
func ResolveDeleteTarget(text string, rowCount int) (IndexSet, error) {
	target, err := ParseDeleteTarget(text)
	if err != nil {
		return IndexSet{}, err
	}
	return target.Resolve(rowCount), nil
}

// IndexSet is a set of row positions: individual points plus inclusive spans.
// The zero value is empty.
type IndexSet struct {
	points map[int]struct{}
	spans  []InclusiveRange
}

// NewIndexSet builds a set from positions; duplicates collapse.
func NewIndexSet(positions ...int) IndexSet {
	points := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		points[p] = struct{}{}
	}
	return IndexSet{points: points}
}

// Contains reports whether position is in the set.
func (s IndexSet) Contains(position int) bool {
	if _, ok := s.points[position]; ok {
		return true
	}
	for _, r := range s.spans {
		if position >= r.Lo && position <= r.Hi {
			return true
		}
	}
	return false
}

// Len returns the number of distinct positions.
func (s IndexSet) Len() int {
	n := len(s.points)
	for _, r := range s.spans {
		n += r.Hi - r.Lo + 1
		for p := range s.points {
			if p >= r.Lo && p <= r.Hi {
				n--
			}
		}
	}
	return n
}
