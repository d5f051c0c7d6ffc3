package preprocess

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// SourceFile is a discovered source file of a project.
type SourceFile struct {
	Path    string // absolute path
	RelPath string // slash-separated, relative to the project root
	Package string // dotted package derived from the file's directory
}

// FileDiscovery finds the source files of a project with glob patterns and
// ignore rules.
type FileDiscovery struct {
	rootDir         string
	sourcePatterns  []compiledPattern
	ignorePatterns  []compiledPattern
	skipTestSources bool
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, sourcePatterns, ignorePatterns []string, skipTestSources bool) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:         rootDir,
		skipTestSources: skipTestSources,
	}

	var err error
	if fd.sourcePatterns, err = compilePatterns(sourcePatterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}
	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var out []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

// DiscoverFiles walks the directory tree and returns the project's source
// files ordered by relative path. Files directly in the root have no package
// and are skipped.
func (fd *FileDiscovery) DiscoverFiles() ([]SourceFile, error) {
	var files []SourceFile

	err := filepath.Walk(fd.rootDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, p)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if fd.shouldIgnore(relPath) || !fd.matchesAnyPattern(relPath, fd.sourcePatterns) {
			return nil
		}

		pkg := PackageFromPath(relPath)
		if pkg == "" {
			return nil
		}
		if fd.skipTestSources && isTestSource(relPath, pkg) {
			return nil
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{Path: abs, RelPath: relPath, Package: pkg})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// PackageFromPath derives the dotted package name from the directory of a
// slash-separated relative path: "com/app/Main.java" -> "com.app".
func PackageFromPath(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// isTestSource matches file names containing "Test" and packages containing
// "test". The package rule also drops names such as "latest".
func isTestSource(relPath, pkg string) bool {
	return strings.Contains(path.Base(relPath), "Test") || strings.Contains(pkg, "test")
}

// Packages returns the sorted unique packages of files.
func Packages(files []SourceFile) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		if !seen[f.Package] {
			seen[f.Package] = true
			out = append(out, f.Package)
		}
	}
	sort.Strings(out)
	return out
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the pkghome directory
	if strings.HasPrefix(relPath, ".pkghome/") {
		return true
	}

	// Check if the path matches any ignore pattern
	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "build" should match pattern "build/**"
	return fd.matchesAnyPattern(relPath+"/**", fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(relPath string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(relPath) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.java" match "Main.java".
	if !strings.Contains(relPath, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(relPath) {
					return true
				}
			}
		}
	}

	return false
}
