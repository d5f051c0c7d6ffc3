// Package config provides configuration loading for pkghome.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags bound by the CLI
//  2. Environment variables (PKGHOME_*), including a .env file in the
//     working directory
//  3. Project config (.pkghome/config.yml) or the file passed with --config
//  4. User config (~/.pkghome/config.yml)
//  5. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: PKGHOME_
//   - Nested fields: Use underscores (PKGHOME_EXTRACTOR_METHOD_NAME_LENGTH)
package config

import (
	"runtime"
)

// Processing modes.
const (
	ModeAuto       = "auto"       // evaluation for projects under a "test" directory
	ModeTraining   = "training"   // pairwise labelled records
	ModeEvaluation = "evaluation" // one file per method
)

// Config represents the complete pkghome configuration.
type Config struct {
	Extractor ExtractorConfig `yaml:"extractor" mapstructure:"extractor"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Moves     MovesConfig     `yaml:"moves" mapstructure:"moves"`
	Neo4j     Neo4jConfig     `yaml:"neo4j" mapstructure:"neo4j"`
	Workers   int             `yaml:"workers" mapstructure:"workers"` // projects processed concurrently
}

// ExtractorConfig controls fact extraction and record formatting.
type ExtractorConfig struct {
	MethodNameLength            int  `yaml:"method_name_length" mapstructure:"method_name_length"`                       // method name tokens per record
	PackageNameLength           int  `yaml:"package_name_length" mapstructure:"package_name_length"`                     // package tokens per package
	ExcludeBoilerplates         bool `yaml:"exclude_boilerplates" mapstructure:"exclude_boilerplates"`                   // skip boilerplate methods as subjects
	ExcludeDeclaredBoilerplates bool `yaml:"exclude_declared_boilerplates" mapstructure:"exclude_declared_boilerplates"` // drop boilerplate from declared sets
	MaxResolveDepth             int  `yaml:"max_resolve_depth" mapstructure:"max_resolve_depth"`                         // expression typing bound
	TypeCacheSize               int  `yaml:"type_cache_size" mapstructure:"type_cache_size"`                             // resolved type cache capacity
}

// PathsConfig defines which files to analyze.
type PathsConfig struct {
	Sources         []string `yaml:"sources" mapstructure:"sources"`                     // glob patterns for source files
	Ignore          []string `yaml:"ignore" mapstructure:"ignore"`                       // glob patterns to ignore
	SkipTestSources bool     `yaml:"skip_test_sources" mapstructure:"skip_test_sources"` // drop *Test* files and test packages
}

// OutputConfig defines where and how records are written.
type OutputConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	Mode string `yaml:"mode" mapstructure:"mode"` // "auto", "training" or "evaluation"
}

// MovesConfig locates the ground-truth moves used in evaluation mode.
type MovesConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`           // JSON document of moves per project
	PathRoot string `yaml:"path_root" mapstructure:"path_root"` // move paths are relative to this; empty means the project's grandparent
}

// Neo4jConfig configures the optional candidate graph export.
type Neo4jConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"` // empty disables the export
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extractor: ExtractorConfig{
			MethodNameLength:            5,
			PackageNameLength:           5,
			ExcludeBoilerplates:         true,
			ExcludeDeclaredBoilerplates: false,
			MaxResolveDepth:             64,
			TypeCacheSize:               16384,
		},
		Paths: PathsConfig{
			Sources: []string{"**/*.java"},
			Ignore: []string{
				".git/**",
				"**/build/**",
				"**/target/**",
				"**/out/**",
			},
			SkipTestSources: true,
		},
		Output: OutputConfig{
			Dir:  "out",
			Mode: ModeAuto,
		},
		Moves: MovesConfig{
			Path: "move.json",
		},
		Neo4j: Neo4jConfig{
			User:     "neo4j",
			Database: "neo4j",
		},
		Workers: runtime.NumCPU(),
	}
}
