package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".pkghome"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files, environment variables and flags.
	// Priority: defaults → user file → project file → environment → flags
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	homeDir    string
	configFile string
	flags      map[string]*pflag.Flag
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithConfigFile loads the given file instead of .pkghome/config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithHomeDir overrides the directory searched for the user config.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) {
		l.homeDir = dir
	}
}

// WithFlags binds command-line flags to config keys, e.g.
// "extractor.method_name_length" → --method-name-length. Flags only take
// effect when set explicitly.
func WithFlags(flags map[string]*pflag.Flag) LoaderOption {
	return func(l *loader) {
		l.flags = flags
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Flags bound with WithFlags
// 2. Environment variables (PKGHOME_*), after loading <root>/.env
// 3. Project config file (.pkghome/config.yml or .pkghome/config.yaml)
// 4. User config file (~/.pkghome/config.yml)
// 5. Default values
func (l *loader) Load() (*Config, error) {
	// A missing .env file is not an error; existing variables win.
	if err := godotenv.Load(filepath.Join(l.rootDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix("PKGHOME")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., PKGHOME_OUTPUT_DIR)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	setDefaults(v)

	if l.homeDir != "" {
		if err := mergeFile(v, filepath.Join(l.homeDir, DirName), ""); err != nil {
			return nil, fmt.Errorf("failed to read user config file: %w", err)
		}
	}
	if err := mergeFile(v, filepath.Join(l.rootDir, DirName), l.configFile); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	for key, flag := range l.flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile merges config.yml (or config.yaml) from dir, or the explicit
// file when set. A missing default file is not an error; a missing explicit
// file is.
func mergeFile(v *viper.Viper, dir, explicit string) error {
	fv := viper.New()
	fv.SetConfigType("yaml")
	if explicit != "" {
		fv.SetConfigFile(explicit)
	} else {
		fv.SetConfigName("config")
		fv.AddConfigPath(dir)
	}

	if err := fv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return v.MergeConfigMap(fv.AllSettings())
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	// Extractor configuration
	v.BindEnv("extractor.method_name_length")
	v.BindEnv("extractor.package_name_length")
	v.BindEnv("extractor.exclude_boilerplates")
	v.BindEnv("extractor.exclude_declared_boilerplates")
	v.BindEnv("extractor.max_resolve_depth")
	v.BindEnv("extractor.type_cache_size")

	// Paths configuration
	v.BindEnv("paths.skip_test_sources")

	// Output configuration
	v.BindEnv("output.dir")
	v.BindEnv("output.mode")

	// Moves configuration
	v.BindEnv("moves.path")
	v.BindEnv("moves.path_root")

	// Neo4j configuration
	v.BindEnv("neo4j.uri")
	v.BindEnv("neo4j.user")
	v.BindEnv("neo4j.password")
	v.BindEnv("neo4j.database")

	v.BindEnv("workers")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Extractor defaults
	v.SetDefault("extractor.method_name_length", defaults.Extractor.MethodNameLength)
	v.SetDefault("extractor.package_name_length", defaults.Extractor.PackageNameLength)
	v.SetDefault("extractor.exclude_boilerplates", defaults.Extractor.ExcludeBoilerplates)
	v.SetDefault("extractor.exclude_declared_boilerplates", defaults.Extractor.ExcludeDeclaredBoilerplates)
	v.SetDefault("extractor.max_resolve_depth", defaults.Extractor.MaxResolveDepth)
	v.SetDefault("extractor.type_cache_size", defaults.Extractor.TypeCacheSize)

	// Paths defaults
	v.SetDefault("paths.sources", defaults.Paths.Sources)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("paths.skip_test_sources", defaults.Paths.SkipTestSources)

	// Output defaults
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.mode", defaults.Output.Mode)

	// Moves defaults
	v.SetDefault("moves.path", defaults.Moves.Path)
	v.SetDefault("moves.path_root", defaults.Moves.PathRoot)

	// Neo4j defaults
	v.SetDefault("neo4j.uri", defaults.Neo4j.URI)
	v.SetDefault("neo4j.user", defaults.Neo4j.User)
	v.SetDefault("neo4j.password", defaults.Neo4j.Password)
	v.SetDefault("neo4j.database", defaults.Neo4j.Database)

	v.SetDefault("workers", defaults.Workers)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string, opts ...LoaderOption) (*Config, error) {
	return NewLoader(rootDir, opts...).Load()
}
