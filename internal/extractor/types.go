package extractor

import (
	"errors"

	"github.com/mvp-joe/pkghome/internal/entity"
)

// ErrUnparsable indicates a source file that could not be turned into facts.
var ErrUnparsable = errors.New("unparsable source file")

// FileFacts holds everything extracted from a single source file.
type FileFacts struct {
	FilePath    string
	PackageName string

	// UsedImports contains import names referenced by an identifier in the
	// file. Wildcard imports are listed without the trailing ".*".
	UsedImports []string

	// CallPackages contains the declaring packages of the receivers of method
	// calls and field accesses, project or external.
	CallPackages []string

	// Declared contains every field and method declared in the file.
	Declared []entity.Entity

	// Methods contains one entry per method declaration, in source order.
	Methods []MethodFacts
}

// MethodFacts describes one method declaration.
type MethodFacts struct {
	Entity      entity.Entity
	Boilerplate bool
	StartLine   int // 1-indexed
	EndLine     int // 1-indexed

	// References contains resolved call targets and field accesses declared
	// in the project. Unresolvable references are dropped.
	References []entity.Entity
}

// FileError records a file that contributed no facts.
type FileError struct {
	FilePath string
	Err      error
}

func (e FileError) Error() string {
	return e.FilePath + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result is the outcome of extracting a project.
type Result struct {
	Files  []*FileFacts // in input order, failed files omitted
	Failed []FileError
}
