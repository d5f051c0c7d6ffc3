package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Source patterns select .java files; other files are ignored
// - Ignore patterns and the .pkghome directory exclude files
// - Test sources are dropped by file name and package when enabled
// - Files in the project root have no package and are skipped
// - Results are sorted by relative path and carry derived packages

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("package x;\n"), 0644))
	}
}

func relPaths(files []SourceFile) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"com/app/Main.java",
		"com/app/MainTest.java",
		"com/app/test/Fixture.java",
		"com/latest/Version.java",
		"com/app/util/Strings.java",
		"Root.java",
		"build/gen/com/Gen.java",
		".pkghome/cache/X.java",
		"README.md",
	)

	t.Run("skipping test sources", func(t *testing.T) {
		t.Parallel()

		fd, err := NewFileDiscovery(root, []string{"**/*.java"}, []string{"build/**"}, true)
		require.NoError(t, err)

		files, err := fd.DiscoverFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{"com/app/Main.java", "com/app/util/Strings.java"}, relPaths(files))

		assert.Equal(t, "com.app", files[0].Package)
		assert.Equal(t, "com.app.util", files[1].Package)
		assert.True(t, filepath.IsAbs(files[0].Path))
		assert.Equal(t, []string{"com.app", "com.app.util"}, Packages(files))
	})

	t.Run("keeping test sources", func(t *testing.T) {
		t.Parallel()

		fd, err := NewFileDiscovery(root, []string{"**/*.java"}, []string{"build/**"}, false)
		require.NoError(t, err)

		files, err := fd.DiscoverFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"com/app/Main.java",
			"com/app/MainTest.java",
			"com/app/test/Fixture.java",
			"com/app/util/Strings.java",
			"com/latest/Version.java",
		}, relPaths(files))
	})
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil, true)
	assert.Error(t, err)
}

func TestPackageFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "com.app", PackageFromPath("com/app/Main.java"))
	assert.Equal(t, "app", PackageFromPath("app/Main.java"))
	assert.Equal(t, "", PackageFromPath("Main.java"))
}
