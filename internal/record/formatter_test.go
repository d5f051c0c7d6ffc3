package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for record formatting:
// - Method names split at camelCase, digits and underscores, lower-cased
// - Names lines are left-padded or truncated to a fixed width
// - Packages keep their trailing components
// - Distances keep at least one fractional digit

func TestSubtokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want []string
	}{
		{"getUserName", []string{"get", "user", "name"}},
		{"parseHTTPHeader", []string{"parse", "http", "header"}},
		{"to_string", []string{"to", "string"}},
		{"utf8Decode", []string{"utf", "decode"}},
		{"run", []string{"run"}},
		{"_", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Subtokens(tt.name))
		})
	}
}

func TestFormatter_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		f      Formatter
		method string
		x, y   string
		want   string
	}{
		{
			name:   "exact fit",
			f:      Formatter{MethodNameLength: 3, PackageNameLength: 2},
			method: "getUserName",
			x:      "com.app.service",
			y:      "com.app.util",
			want:   "get user name app service app util",
		},
		{
			name:   "padding",
			f:      Formatter{MethodNameLength: 5, PackageNameLength: 3},
			method: "run",
			x:      "app",
			y:      "app.core",
			want:   "* * * * run * * app * app core",
		},
		{
			name:   "truncation keeps leading method tokens",
			f:      Formatter{MethodNameLength: 2, PackageNameLength: 1},
			method: "findAllActiveUsers",
			x:      "a.b",
			y:      "c",
			want:   "find all b c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.f.Names(tt.method, tt.x, tt.y)
			assert.Equal(t, tt.want, got)
			assert.Len(t, strings.Fields(got), tt.f.Width())
		})
	}
}

func TestFormatter_FixedWidth(t *testing.T) {
	t.Parallel()

	f := Formatter{MethodNameLength: 5, PackageNameLength: 5}
	methods := []string{"a", "getX", "computeVeryLongMethodNameWithManyParts", "x1"}
	pkgs := []string{"p", "org.example.deep.nested.pkg.name.here", "a.b"}

	for _, m := range methods {
		for _, x := range pkgs {
			for _, y := range pkgs {
				assert.Len(t, strings.Fields(f.Names(m, x, y)), 15, "%s %s %s", m, x, y)
			}
		}
	}
}

func TestDistances(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0 0.5 0", Distances(1, 0.5, LabelStay))
	assert.Equal(t, "0.5 1.0 1", Distances(0.5, 1, LabelMove))
	assert.Equal(t, "0.0", FormatDistance(0))
	assert.Equal(t, "0.6666666666666667", FormatDistance(1.0-1.0/3.0))
	assert.Equal(t, "0.75", FormatDistance(0.75))
}
