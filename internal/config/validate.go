package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidNameLength indicates a non-positive name token count
	ErrInvalidNameLength = errors.New("invalid name length")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidMode indicates an unknown processing mode
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptySources indicates no source patterns were configured
	ErrEmptySources = errors.New("empty source patterns")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidResolverSettings indicates invalid extractor limits
	ErrInvalidResolverSettings = errors.New("invalid resolver settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtractor(&cfg.Extractor); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtractor(cfg *ExtractorConfig) error {
	var errs []error

	if cfg.MethodNameLength <= 0 {
		errs = append(errs, fmt.Errorf("%w: method_name_length must be positive, got %d", ErrInvalidNameLength, cfg.MethodNameLength))
	}

	if cfg.PackageNameLength <= 0 {
		errs = append(errs, fmt.Errorf("%w: package_name_length must be positive, got %d", ErrInvalidNameLength, cfg.PackageNameLength))
	}

	if cfg.MaxResolveDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_resolve_depth must be positive, got %d", ErrInvalidResolverSettings, cfg.MaxResolveDepth))
	}

	if cfg.TypeCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: type_cache_size must be positive, got %d", ErrInvalidResolverSettings, cfg.TypeCacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Sources) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one source pattern required", ErrEmptySources))
	}

	for _, pattern := range append(append([]string{}, cfg.Sources...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: output dir is required", ErrEmptyOutputDir))
	}

	switch cfg.Mode {
	case ModeAuto, ModeTraining, ModeEvaluation:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s', '%s' or '%s', got '%s'",
			ErrInvalidMode, ModeAuto, ModeTraining, ModeEvaluation, cfg.Mode))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every wrapped sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	var msgs []string
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
