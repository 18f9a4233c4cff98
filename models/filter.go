package models

import (
	"sort"
	"strconv"
	"strings"
)

// StyleEveryone is the filter value meaning a block is visible to all viewers
// regardless of their learning style.
const StyleEveryone = 0

// LearningFilter is the set of perceptual learning styles a block is shown to.
// It is either exactly {0} (everyone) or a non-empty subset of {1,2,3}.
// On the wire it is a comma-joined string, e.g. "1,3".
type LearningFilter []int

// NewLearningFilter builds a filter from the checked style values of an
// authoring form. An empty selection means the block targets everyone.
func NewLearningFilter(selected []int) LearningFilter {
	seen := make(map[int]bool)
	var f LearningFilter
	for _, v := range selected {
		if v < 1 || v > 3 || seen[v] {
			continue
		}
		seen[v] = true
		f = append(f, v)
	}
	if len(f) == 0 {
		return LearningFilter{StyleEveryone}
	}
	sort.Ints(f)
	return f
}

// ParseLearningFilter parses a comma-joined filter attribute back into a set.
// Blank or unparseable input yields the everyone filter.
func ParseLearningFilter(s string) LearningFilter {
	var f LearningFilter
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if v == StyleEveryone {
			return LearningFilter{StyleEveryone}
		}
		f = append(f, v)
	}
	if len(f) == 0 {
		return LearningFilter{StyleEveryone}
	}
	sort.Ints(f)
	return f
}

func (f LearningFilter) String() string {
	if len(f) == 0 {
		return strconv.Itoa(StyleEveryone)
	}
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// VisibleTo reports whether a viewer with the given learning style should see
// content tagged with this filter.
func (f LearningFilter) VisibleTo(style int) bool {
	for _, v := range f {
		if v == StyleEveryone || v == style {
			return true
		}
	}
	return len(f) == 0
}
