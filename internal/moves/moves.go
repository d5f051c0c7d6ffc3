// Package moves loads ground-truth move-method events used to label
// evaluation records.
package moves

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mvp-joe/pkghome/internal/entity"
)

// ErrMovesNotFound indicates the moves document does not exist.
var ErrMovesNotFound = errors.New("moves file not found")

// Move is one recorded move of a method between packages.
type Move struct {
	Signature    string `json:"signature"`
	FilePath     string `json:"file_path"`
	LineFrom     int    `json:"line_from"`
	LineTo       int    `json:"line_to"`
	PackageOrig  string `json:"package_orig"`
	ClassName    string `json:"class_name"`
	MethodName   string `json:"method_name"`
	PackageMoved string `json:"package_moved"`
}

// Key identifies a method location: "<path>:<from>-<to>".
func Key(filePath string, lineFrom, lineTo int) string {
	return filePath + ":" + strconv.Itoa(lineFrom) + "-" + strconv.Itoa(lineTo)
}

// Index looks up moves by location.
type Index struct {
	moves map[string]Move
}

// NewIndex indexes moves by location. Later duplicates replace earlier ones.
func NewIndex(moves []Move) *Index {
	idx := &Index{moves: make(map[string]Move, len(moves))}
	for _, m := range moves {
		idx.moves[Key(m.FilePath, m.LineFrom, m.LineTo)] = m
	}
	return idx
}

// Load reads the moves of project from the JSON document at path. The
// document maps project names to lists of moves; a project without an entry
// has no moves.
func Load(path, project string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMovesNotFound, path)
		}
		return nil, fmt.Errorf("failed to open moves file: %w", err)
	}
	defer f.Close()

	return Parse(f, project)
}

// Parse decodes a moves document and indexes the moves of project.
func Parse(r io.Reader, project string) (*Index, error) {
	var doc map[string][]Move
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode moves: %w", err)
	}
	return NewIndex(doc[project]), nil
}

// Len returns the number of indexed moves.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.moves)
}

// Lookup returns the move recorded at a location.
func (idx *Index) Lookup(filePath string, lineFrom, lineTo int) (Move, bool) {
	if idx == nil {
		return Move{}, false
	}
	m, ok := idx.moves[Key(filePath, lineFrom, lineTo)]
	return m, ok
}

// Confirm returns the move of method when one is recorded at its location
// under keyPath and its signature and original package match the method.
func (idx *Index) Confirm(method *entity.Method, keyPath string) (Move, bool) {
	m, ok := idx.Lookup(keyPath, method.LineFrom, method.LineTo)
	if !ok {
		return Move{}, false
	}
	if m.Signature != method.Signature() || m.PackageOrig != method.Package {
		return Move{}, false
	}
	return m, true
}
