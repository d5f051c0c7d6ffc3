// Package extractor turns Java source files into the facts the candidate
// and distance stages consume.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const (
	// DefaultMaxDepth bounds nested expression typing.
	DefaultMaxDepth = 64

	// DefaultTypeCacheSize is the capacity of the type resolution cache.
	DefaultTypeCacheSize = 16384
)

// Extractor parses a project's Java sources in two phases: an index over all
// files, then per-file facts resolved against that index.
type Extractor struct {
	language  *sitter.Language
	logger    *slog.Logger
	maxDepth  int
	cacheSize int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-file warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth sets the expression typing depth bound.
func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithTypeCacheSize sets the capacity of the type resolution cache.
func WithTypeCacheSize(size int) Option {
	return func(e *Extractor) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		language:  sitter.NewLanguage(java.Language()),
		logger:    slog.Default(),
		maxDepth:  DefaultMaxDepth,
		cacheSize: DefaultTypeCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the given files and returns facts for every file that could
// be processed, in input order. Files that fail are reported in
// Result.Failed. Errors are returned only for context cancellation and setup
// failures.
func (e *Extractor) Extract(ctx context.Context, paths []string) (*Result, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set Java language: %w", err)
	}

	result := &Result{}
	fail := func(path string, err error) {
		e.logger.Warn("skipping source file", "file", path, "error", err)
		result.Failed = append(result.Failed, FileError{FilePath: path, Err: err})
	}

	idx := newIndex()
	var units []*sourceUnit
	defer func() {
		for _, u := range units {
			u.tree.Close()
		}
	}()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unit, err := e.parse(parser, path)
		if err != nil {
			fail(path, err)
			continue
		}
		units = append(units, unit)
		idx.register(unit)
	}

	r, err := newResolver(idx, e.maxDepth, e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create type cache: %w", err)
	}
	defer r.close()

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		facts, err := r.safeUnitFacts(unit)
		if err != nil {
			fail(unit.path, err)
			continue
		}
		result.Files = append(result.Files, facts)
	}

	e.logger.Debug("extracted source facts",
		"files", len(result.Files),
		"failed", len(result.Failed),
		"types", len(idx.types))
	return result, nil
}

// parse reads and indexes one file. Files with syntax errors or without a
// package declaration are unparsable.
func (e *Extractor) parse(parser *sitter.Parser, path string) (*sourceUnit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrUnparsable)
	}

	unit := &sourceUnit{path: path, source: source, tree: tree, root: tree.RootNode()}
	if unit.root.HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: syntax error", ErrUnparsable)
	}

	indexUnit(unit)
	if unit.pkg == "" {
		tree.Close()
		return nil, fmt.Errorf("%w: missing package declaration", ErrUnparsable)
	}
	return unit, nil
}

// safeUnitFacts converts a panic while resolving a file into an error.
func (r *resolver) safeUnitFacts(unit *sourceUnit) (facts *FileFacts, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			facts = nil
			err = fmt.Errorf("%w: %v", ErrUnparsable, rec)
		}
	}()
	return r.unitFacts(unit), nil
}
