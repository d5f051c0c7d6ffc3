package entity

// Set is an unordered collection of entities.
type Set map[Entity]struct{}

// NewSet creates a set holding the given entities.
func NewSet(entities ...Entity) Set {
	s := make(Set, len(entities))
	s.Add(entities...)
	return s
}

// Add inserts entities into the set.
func (s Set) Add(entities ...Entity) {
	for _, e := range entities {
		s[e] = struct{}{}
	}
}

// Contains reports whether e is a member of the set.
func (s Set) Contains(e Entity) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of entities in the set.
func (s Set) Len() int {
	return len(s)
}

// overlap returns |a ∩ b| and |a ∪ b|, treating exclude as absent from b.
// Neither set is modified.
func overlap(a, b Set, exclude *Entity) (intersection, union int) {
	bLen := len(b)
	if exclude != nil && b.Contains(*exclude) {
		bLen--
	}

	for e := range a {
		if exclude != nil && e == *exclude {
			continue
		}
		if b.Contains(e) {
			intersection++
		}
	}

	// An excluded entity that is also in a still counts towards the union.
	union = len(a) + bLen - intersection
	return intersection, union
}
