package entity

// Package is a project package and the entities declared in it.
type Package struct {
	name     string
	entities Set
}

// NewPackage creates an empty package.
func NewPackage(name string) *Package {
	return &Package{
		name:     name,
		entities: make(Set),
	}
}

// Name returns the dotted package name.
func (p *Package) Name() string {
	return p.name
}

// AddEntities records declared entities. Only called while aggregating.
func (p *Package) AddEntities(entities ...Entity) {
	p.entities.Add(entities...)
}

// Contains reports whether e is declared in the package.
func (p *Package) Contains(e Entity) bool {
	return p.entities.Contains(e)
}

// Len returns the number of declared entities.
func (p *Package) Len() int {
	return p.entities.Len()
}
