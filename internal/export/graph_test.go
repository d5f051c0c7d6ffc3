package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pkghome/internal/candidate"
	"github.com/mvp-joe/pkghome/internal/distance"
	"github.com/mvp-joe/pkghome/internal/entity"
	"github.com/mvp-joe/pkghome/internal/extractor"
)

// Test Plan for NewGraph:
// - Every package becomes a row with its declared entity count
// - Candidate edges appear once per unordered pair
// - Methods are keyed by location and link to distances for every candidate
//   of their home package, the home row flagged

func TestNewGraph(t *testing.T) {
	t.Parallel()

	packages := []string{"app.a", "app.b", "app.c"}
	b := candidate.NewBuilder(packages)
	b.AddFile("app.a", nil, []string{"app.b"})
	cands, err := b.Build()
	require.NoError(t, err)

	run := entity.Method("app.a", "run", "run()")
	helper := entity.Method("app.b", "help", "help()")
	files := []*extractor.FileFacts{
		{
			FilePath:    "/p/app/a/A.java",
			PackageName: "app.a",
			Declared:    []entity.Entity{run},
			Methods: []extractor.MethodFacts{{
				Entity:     run,
				StartLine:  3,
				EndLine:    5,
				References: []entity.Entity{helper},
			}},
		},
		{
			FilePath:    "/p/app/b/B.java",
			PackageName: "app.b",
			Declared:    []entity.Entity{helper},
		},
	}
	result := distance.NewCalculator(packages).Calculate(files)

	g := NewGraph("demo", cands, result)
	assert.Equal(t, "demo", g.Project)

	require.Len(t, g.Packages, 3)
	assert.Equal(t, map[string]any{"name": "app.a", "entities": 1}, g.Packages[0])
	assert.Equal(t, map[string]any{"name": "app.c", "entities": 0}, g.Packages[2])

	assert.Equal(t, []map[string]any{{"from": "app.a", "to": "app.b"}}, g.Candidates)

	require.Len(t, g.Methods, 1)
	key := MethodKey("/p/app/a/A.java", 3, 5)
	assert.Equal(t, "/p/app/a/A.java:3-5", key)
	assert.Equal(t, key, g.Methods[0]["key"])
	assert.Equal(t, "run()", g.Methods[0]["signature"])
	assert.Equal(t, 1, g.Methods[0]["references"])

	require.Len(t, g.Distances, 2)
	assert.Equal(t, map[string]any{"method": key, "package": "app.a", "distance": 1.0, "home": true}, g.Distances[0])
	assert.Equal(t, map[string]any{"method": key, "package": "app.b", "distance": 0.0, "home": false}, g.Distances[1])
}
