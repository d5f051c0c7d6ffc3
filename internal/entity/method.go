package entity

// Method is one analyzable (non-boilerplate) method declaration.
type Method struct {
	Package  string // Home package
	Entity   Entity // The method's own declared identity
	FilePath string // Absolute path of the declaring file
	LineFrom int    // 1-indexed
	LineTo   int    // 1-indexed

	references Set
}

// NewMethod creates an analysis unit for a declared method.
func NewMethod(pkg string, self Entity, filePath string, lineFrom, lineTo int) *Method {
	return &Method{
		Package:    pkg,
		Entity:     self,
		FilePath:   filePath,
		LineFrom:   lineFrom,
		LineTo:     lineTo,
		references: make(Set),
	}
}

// Name returns the method's simple name.
func (m *Method) Name() string {
	return m.Entity.Name
}

// Signature returns the method's signature, e.g. "find(String, int)".
func (m *Method) Signature() string {
	return m.Entity.Signature
}

// AddReferences records entities referenced from the method body.
func (m *Method) AddReferences(entities ...Entity) {
	m.references.Add(entities...)
}

// References returns the number of distinct referenced entities.
func (m *Method) References() int {
	return m.references.Len()
}

// Refers reports whether the method body references e.
func (m *Method) Refers(e Entity) bool {
	return m.references.Contains(e)
}

// Distance returns the Jaccard distance between the entities referenced by
// the method and the entities declared in pkg. When pkg is the method's home
// package the method's own entity is not counted as declared.
// The result is 1.0 when both sets are empty.
func (m *Method) Distance(pkg *Package) float64 {
	var exclude *Entity
	if pkg.Name() == m.Package {
		self := m.Entity
		exclude = &self
	}

	intersection, union := overlap(m.references, pkg.entities, exclude)
	if union == 0 {
		return 1.0
	}
	return 1.0 - float64(intersection)/float64(union)
}
