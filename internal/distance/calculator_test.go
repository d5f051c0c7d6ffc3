package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pkghome/internal/entity"
	"github.com/mvp-joe/pkghome/internal/extractor"
)

// Test Plan for Calculator:
// - Every project package exists, even without files
// - Boilerplate methods are declared but not analyzed by default
// - Both toggles work independently
// - Files outside the project's packages are ignored
// - Methods keep file order, then declaration order
// - Distances follow from the aggregated sets, including self exclusion

var (
	getName  = entity.Method("app.model", "getName", "getName()")
	nameFld  = entity.Field("app.model", "String", "name")
	format   = entity.Method("app.model", "format", "format(String)")
	render   = entity.Method("app.view", "render", "render()")
	title    = entity.Field("app.view", "String", "title")
	packages = []string{"app.model", "app.view", "app.empty"}
)

func facts() []*extractor.FileFacts {
	return []*extractor.FileFacts{
		{
			FilePath:    "/p/app/model/User.java",
			PackageName: "app.model",
			Declared:    []entity.Entity{nameFld, getName, format},
			Methods: []extractor.MethodFacts{
				{Entity: getName, Boilerplate: true, StartLine: 5, EndLine: 7},
				{Entity: format, StartLine: 9, EndLine: 11, References: []entity.Entity{getName, nameFld}},
			},
		},
		{
			FilePath:    "/p/app/view/Page.java",
			PackageName: "app.view",
			Declared:    []entity.Entity{title, render},
			Methods: []extractor.MethodFacts{
				{Entity: render, StartLine: 3, EndLine: 6, References: []entity.Entity{getName, format, title}},
			},
		},
		{
			FilePath:    "/elsewhere/Other.java",
			PackageName: "org.other",
			Declared:    []entity.Entity{entity.Method("org.other", "run", "run()")},
			Methods: []extractor.MethodFacts{
				{Entity: entity.Method("org.other", "run", "run()")},
			},
		},
	}
}

func names(methods []*entity.Method) []string {
	var out []string
	for _, m := range methods {
		out = append(out, m.Name())
	}
	return out
}

func TestCalculate_Defaults(t *testing.T) {
	t.Parallel()

	result := NewCalculator(packages).Calculate(facts())

	assert.Equal(t, []string{"app.empty", "app.model", "app.view"}, result.PackageNames())
	empty, ok := result.Package("app.empty")
	require.True(t, ok)
	assert.Equal(t, 0, empty.Len())

	model, _ := result.Package("app.model")
	assert.True(t, model.Contains(getName), "boilerplate stays declared")
	assert.Equal(t, 3, model.Len())

	assert.Equal(t, []string{"format", "render"}, names(result.Methods))
	_, ok = result.Package("org.other")
	assert.False(t, ok)
}

func TestCalculate_Toggles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		opts            []Option
		wantMethods     []string
		wantModelLen    int
		wantDeclaredGet bool
	}{
		{
			name:            "analyze boilerplate",
			opts:            []Option{WithExcludeBoilerplates(false)},
			wantMethods:     []string{"getName", "format", "render"},
			wantModelLen:    3,
			wantDeclaredGet: true,
		},
		{
			name:            "exclude declared boilerplate",
			opts:            []Option{WithExcludeDeclaredBoilerplates(true)},
			wantMethods:     []string{"format", "render"},
			wantModelLen:    2,
			wantDeclaredGet: false,
		},
		{
			name:            "symmetric exclusion",
			opts:            []Option{WithExcludeBoilerplates(true), WithExcludeDeclaredBoilerplates(true)},
			wantMethods:     []string{"format", "render"},
			wantModelLen:    2,
			wantDeclaredGet: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := NewCalculator(packages, tt.opts...).Calculate(facts())
			model, _ := result.Package("app.model")

			assert.Equal(t, tt.wantMethods, names(result.Methods))
			assert.Equal(t, tt.wantModelLen, model.Len())
			assert.Equal(t, tt.wantDeclaredGet, model.Contains(getName))
		})
	}
}

func TestCalculate_Distances(t *testing.T) {
	t.Parallel()

	result := NewCalculator(packages).Calculate(facts())
	model, _ := result.Package("app.model")
	view, _ := result.Package("app.view")
	empty, _ := result.Package("app.empty")

	formatM, renderM := result.Methods[0], result.Methods[1]

	// format refs {getName, name}; model declared minus self {name, getName}.
	assert.Equal(t, 0.0, formatM.Distance(model))
	// render refs {getName, format, title}; model declared {name, getName, format}.
	assert.Equal(t, 0.5, renderM.Distance(model))
	// view declared minus self {title}.
	assert.InDelta(t, 1.0-1.0/3.0, renderM.Distance(view), 1e-12)
	assert.Equal(t, 1.0, formatM.Distance(empty))

	assert.Equal(t, "/p/app/view/Page.java", renderM.FilePath)
	assert.Equal(t, 3, renderM.LineFrom)
	assert.Equal(t, 6, renderM.LineTo)
}
