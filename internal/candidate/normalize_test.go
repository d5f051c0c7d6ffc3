package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Normalizer:
// - Class imports map to the package sharing the longest prefix
// - Deeper packages win over shallower ones
// - Wildcard package imports map to the matching package
// - Imports sharing no first segment stay unchanged
// - A single shared segment is enough to match
// - Ties resolve to the lexicographically smallest package

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := NewNormalizer([]string{"com.app", "com.app.model", "com.app.service", "org.other"})

	tests := []struct {
		name        string
		importName  string
		want        string
		wantMatched bool
	}{
		{"class in package", "com.app.model.User", "com.app.model", true},
		{"deepest wins", "com.app.service.impl.Cache", "com.app.service", true},
		{"wildcard package", "com.app.model", "com.app.model", true},
		{"parent package", "com.app.Main", "com.app", true},
		{"external", "java.io.File", "java.io.File", false},
		{"single segment", "org.lib.Thing", "org.other", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := n.Normalize(tt.importName)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func TestNormalize_TieBreakIsLexicographic(t *testing.T) {
	t.Parallel()

	// Both share "com.app" with the import; input order must not matter.
	for _, pkgs := range [][]string{
		{"com.app.zeta", "com.app.alpha"},
		{"com.app.alpha", "com.app.zeta"},
	} {
		got, matched := NewNormalizer(pkgs).Normalize("com.app.Util")
		assert.True(t, matched)
		assert.Equal(t, "com.app.alpha", got)
	}
}
