// Package distance aggregates extracted facts into packages and analyzable
// methods, the inputs of the Jaccard distance computation.
package distance

import (
	"log/slog"
	"sort"

	"github.com/mvp-joe/pkghome/internal/entity"
	"github.com/mvp-joe/pkghome/internal/extractor"
)

// Calculator aggregates per-file facts for one project run.
type Calculator struct {
	packages []string
	logger   *slog.Logger

	// excludeSubjects drops boilerplate methods from the analyzed methods.
	excludeSubjects bool
	// excludeDeclared drops boilerplate methods from package declared sets.
	excludeDeclared bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithExcludeBoilerplates controls whether boilerplate methods are skipped as
// analysis subjects. Enabled by default.
func WithExcludeBoilerplates(exclude bool) Option {
	return func(c *Calculator) {
		c.excludeSubjects = exclude
	}
}

// WithExcludeDeclaredBoilerplates controls whether boilerplate methods are
// left out of package declared sets. Disabled by default.
func WithExcludeDeclaredBoilerplates(exclude bool) Option {
	return func(c *Calculator) {
		c.excludeDeclared = exclude
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a calculator over the project's package names.
func NewCalculator(packages []string, opts ...Option) *Calculator {
	c := &Calculator{
		packages:        packages,
		logger:          slog.Default(),
		excludeSubjects: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result holds the aggregated packages and the analyzable methods.
type Result struct {
	Packages map[string]*entity.Package
	Methods  []*entity.Method // file order, then declaration order
}

// Package returns the named package.
func (r *Result) Package(name string) (*entity.Package, bool) {
	p, ok := r.Packages[name]
	return p, ok
}

// PackageNames returns the package names in sorted order.
func (r *Result) PackageNames() []string {
	names := make([]string, 0, len(r.Packages))
	for name := range r.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate builds declared sets and analyzable methods from files. Files in
// packages outside the project are ignored.
func (c *Calculator) Calculate(files []*extractor.FileFacts) *Result {
	result := &Result{Packages: make(map[string]*entity.Package, len(c.packages))}
	for _, name := range c.packages {
		result.Packages[name] = entity.NewPackage(name)
	}

	boilerplates := 0
	for _, file := range files {
		pkg, ok := result.Packages[file.PackageName]
		if !ok {
			c.logger.Warn("file declares a package outside the project",
				"file", file.FilePath,
				"package", file.PackageName)
			continue
		}

		pkg.AddEntities(c.declared(file)...)

		for _, mf := range file.Methods {
			if mf.Boilerplate {
				boilerplates++
				if c.excludeSubjects {
					continue
				}
			}
			m := entity.NewMethod(file.PackageName, mf.Entity, file.FilePath, mf.StartLine, mf.EndLine)
			m.AddReferences(mf.References...)
			result.Methods = append(result.Methods, m)
		}
	}

	c.logger.Debug("aggregated packages",
		"packages", len(result.Packages),
		"methods", len(result.Methods),
		"boilerplates", boilerplates)
	return result
}

// declared returns the entities a file contributes to its package.
func (c *Calculator) declared(file *extractor.FileFacts) []entity.Entity {
	if !c.excludeDeclared {
		return file.Declared
	}

	skip := make(map[entity.Entity]bool)
	for _, mf := range file.Methods {
		if mf.Boilerplate {
			skip[mf.Entity] = true
		}
	}

	out := make([]entity.Entity, 0, len(file.Declared))
	for _, e := range file.Declared {
		if !skip[e] {
			out = append(out, e)
		}
	}
	return out
}
