package candidate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dominikbraun/graph"
)

// Builder aggregates per-file import and call facts by package and turns them
// into a candidate map.
//
// A Builder is not safe for concurrent use; each project run owns its own.
type Builder struct {
	packages []string
	known    map[string]struct{}
	imports  map[string]map[string]struct{}
	calls    map[string]map[string]struct{}
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a builder for the given project packages.
func NewBuilder(packages []string, opts ...Option) *Builder {
	b := &Builder{
		known:   make(map[string]struct{}, len(packages)),
		imports: make(map[string]map[string]struct{}),
		calls:   make(map[string]map[string]struct{}),
		logger:  slog.Default(),
	}
	for _, p := range packages {
		if _, dup := b.known[p]; dup {
			continue
		}
		b.known[p] = struct{}{}
		b.packages = append(b.packages, p)
	}
	sort.Strings(b.packages)

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddFile merges one file's used imports and call-target packages into its
// package. Files of unknown packages are ignored.
func (b *Builder) AddFile(pkg string, usedImports, callPackages []string) {
	if _, ok := b.known[pkg]; !ok {
		b.logger.Debug("ignoring facts for unknown package", "package", pkg)
		return
	}
	addAll(b.imports, pkg, usedImports)
	addAll(b.calls, pkg, callPackages)
}

// Build constructs the symmetric candidate map.
func (b *Builder) Build() (Map, error) {
	g := graph.New(graph.StringHash)
	for _, p := range b.packages {
		if err := g.AddVertex(p); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return Map{}, fmt.Errorf("failed to add package %s: %w", p, err)
		}
	}

	addEdge := func(from, to string) error {
		if from == to {
			return nil
		}
		if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to connect %s and %s: %w", from, to, err)
		}
		return nil
	}

	// Calls into other project packages
	callEdges := 0
	for _, from := range b.packages {
		for _, to := range sortedKeys(b.calls[from]) {
			if _, ok := b.known[to]; !ok {
				continue
			}
			if err := addEdge(from, to); err != nil {
				return Map{}, err
			}
			callEdges++
		}
	}

	// Imports of project classes connect to the owning package; every import
	// (project or external) is kept in normalized form for the shared-import pass.
	normalizer := NewNormalizer(b.packages)
	importers := make(map[string][]string)
	importEdges := 0
	for _, from := range b.packages {
		normalized := make(map[string]struct{})
		for _, imp := range sortedKeys(b.imports[from]) {
			name, matched := normalizer.Normalize(imp)
			if matched {
				if err := addEdge(from, name); err != nil {
					return Map{}, err
				}
				importEdges++
			}
			normalized[name] = struct{}{}
		}
		for name := range normalized {
			importers[name] = append(importers[name], from)
		}
	}

	// Packages importing the same normalized name are candidates for each other.
	sharedEdges := 0
	for _, name := range sortedKeys(importers) {
		group := importers[name]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if err := addEdge(group[i], group[j]); err != nil {
					return Map{}, err
				}
				sharedEdges++
			}
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return Map{}, fmt.Errorf("failed to read package graph: %w", err)
	}

	m := newMap(b.packages)
	for from, neighbours := range adjacency {
		for to := range neighbours {
			m.connect(from, to)
		}
	}

	b.logger.Debug("candidate map built",
		"packages", len(b.packages),
		"call_edges", callEdges,
		"import_edges", importEdges,
		"shared_import_edges", sharedEdges)

	return m, nil
}

func addAll(dst map[string]map[string]struct{}, key string, values []string) {
	set, ok := dst[key]
	if !ok {
		set = make(map[string]struct{})
		dst[key] = set
	}
	for _, v := range values {
		set[v] = struct{}{}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
