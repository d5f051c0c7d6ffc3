package candidate

import (
	"sort"
	"strings"
)

// Normalizer maps import names onto project packages by longest shared
// component-wise prefix.
type Normalizer struct {
	names    []string   // sorted project package names
	segments [][]string // names[i] split on "."
}

// NewNormalizer creates a normalizer over the given project packages.
func NewNormalizer(packages []string) *Normalizer {
	names := append([]string(nil), packages...)
	sort.Strings(names)

	segments := make([][]string, len(names))
	for i, name := range names {
		segments[i] = strings.Split(name, ".")
	}

	return &Normalizer{names: names, segments: segments}
}

// Normalize returns the project package sharing the longest dotted prefix with
// importName and true, or importName unchanged and false if no project package
// shares even its first segment.
// Ties on prefix length resolve to the lexicographically smallest package.
func (n *Normalizer) Normalize(importName string) (string, bool) {
	target := strings.Split(importName, ".")

	best := 0
	bestName := ""
	for i, segs := range n.segments {
		// Strictly greater keeps the earliest (smallest) name on ties.
		if l := sharedPrefix(segs, target); l > best {
			best = l
			bestName = n.names[i]
		}
	}

	if best == 0 {
		return importName, false
	}
	return bestName, true
}

// sharedPrefix counts leading segments equal in a and b.
func sharedPrefix(a, b []string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
