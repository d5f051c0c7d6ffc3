// Package export writes a project's candidate graph to external stores.
package export

import (
	"strconv"

	"github.com/mvp-joe/pkghome/internal/candidate"
	"github.com/mvp-joe/pkghome/internal/distance"
)

// Graph is the exportable form of one project's candidate packages, its
// analyzable methods and their distances to candidate packages. Rows are
// plain maps so they can be passed directly as query parameters.
type Graph struct {
	Project    string
	Packages   []map[string]any
	Candidates []map[string]any
	Methods    []map[string]any
	Distances  []map[string]any
}

// NewGraph flattens a project analysis into graph rows. Candidate edges are
// emitted once per unordered pair; distance rows cover every candidate of a
// method's home package, the home package included.
func NewGraph(project string, cands candidate.Map, result *distance.Result) Graph {
	g := Graph{Project: project}

	for _, name := range cands.Packages() {
		row := map[string]any{
			"name":     name,
			"entities": 0,
		}
		if pkg, ok := result.Package(name); ok {
			row["entities"] = pkg.Len()
		}
		g.Packages = append(g.Packages, row)

		for _, other := range cands.Others(name, name) {
			if other < name {
				continue
			}
			g.Candidates = append(g.Candidates, map[string]any{
				"from": name,
				"to":   other,
			})
		}
	}

	for _, m := range result.Methods {
		key := MethodKey(m.FilePath, m.LineFrom, m.LineTo)
		g.Methods = append(g.Methods, map[string]any{
			"key":        key,
			"name":       m.Name(),
			"signature":  m.Signature(),
			"package":    m.Package,
			"file":       m.FilePath,
			"line_from":  m.LineFrom,
			"line_to":    m.LineTo,
			"references": m.References(),
		})

		for _, target := range cands.Candidates(m.Package) {
			pkg, ok := result.Package(target)
			if !ok {
				continue
			}
			g.Distances = append(g.Distances, map[string]any{
				"method":   key,
				"package":  target,
				"distance": m.Distance(pkg),
				"home":     target == m.Package,
			})
		}
	}
	return g
}

// MethodKey identifies a method node by its location.
func MethodKey(filePath string, lineFrom, lineTo int) string {
	return filePath + ":" + strconv.Itoa(lineFrom) + "-" + strconv.Itoa(lineTo)
}
