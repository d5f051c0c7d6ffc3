package entity

import "fmt"

// Kind represents the type of a declared program element.
type Kind string

const (
	KindMethod Kind = "METHOD"
	KindField  Kind = "FIELD"
)

// Entity identifies a declared method or field.
// Entities are compared by value, so they can be used directly as map keys.
type Entity struct {
	Kind      Kind   // METHOD or FIELD
	Package   string // Owning package (e.g., "com.app.service")
	Type      string // Declared type, fields only
	Name      string // Simple name
	Signature string // e.g., "find(String, int)", methods only
}

// Method creates a method entity.
func Method(pkg, name, signature string) Entity {
	return Entity{Kind: KindMethod, Package: pkg, Name: name, Signature: signature}
}

// Field creates a field entity.
func Field(pkg, typ, name string) Entity {
	return Entity{Kind: KindField, Package: pkg, Type: typ, Name: name}
}

// IsMethod reports whether the entity is a method.
func (e Entity) IsMethod() bool {
	return e.Kind == KindMethod
}

func (e Entity) String() string {
	if e.IsMethod() {
		return fmt.Sprintf("%s %s.%s", e.Kind, e.Package, e.Signature)
	}
	return fmt.Sprintf("%s %s.%s: %s", e.Kind, e.Package, e.Name, e.Type)
}
