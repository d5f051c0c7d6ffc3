package candidate

import "sort"

// Map holds the candidate packages of every project package.
// Every package is its own candidate and membership is symmetric.
type Map struct {
	sets map[string]map[string]struct{}
}

func newMap(packages []string) Map {
	m := Map{sets: make(map[string]map[string]struct{}, len(packages))}
	for _, p := range packages {
		m.sets[p] = map[string]struct{}{p: {}}
	}
	return m
}

func (m Map) connect(a, b string) {
	if _, ok := m.sets[a]; !ok {
		m.sets[a] = map[string]struct{}{a: {}}
	}
	if _, ok := m.sets[b]; !ok {
		m.sets[b] = map[string]struct{}{b: {}}
	}
	m.sets[a][b] = struct{}{}
	m.sets[b][a] = struct{}{}
}

// Has reports whether pkg was part of the build.
func (m Map) Has(pkg string) bool {
	_, ok := m.sets[pkg]
	return ok
}

// Contains reports whether candidate is a candidate package of pkg.
func (m Map) Contains(pkg, candidate string) bool {
	_, ok := m.sets[pkg][candidate]
	return ok
}

// Candidates returns the sorted candidate packages of pkg, including pkg.
func (m Map) Candidates(pkg string) []string {
	set := m.sets[pkg]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Others returns the sorted candidate packages of pkg other than exclude.
func (m Map) Others(pkg, exclude string) []string {
	set := m.sets[pkg]
	out := make([]string, 0, len(set))
	for c := range set {
		if c != exclude {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Packages returns all packages in sorted order.
func (m Map) Packages() []string {
	return sortedKeys(m.sets)
}

// Len returns the number of packages.
func (m Map) Len() int {
	return len(m.sets)
}
