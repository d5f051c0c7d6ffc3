// Package preprocess runs the move-method preprocessing pipeline over
// projects and datasets: discovery, fact extraction, candidate packages,
// distances and record output.
package preprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/pkghome/internal/candidate"
	"github.com/mvp-joe/pkghome/internal/config"
	"github.com/mvp-joe/pkghome/internal/distance"
	"github.com/mvp-joe/pkghome/internal/entity"
	"github.com/mvp-joe/pkghome/internal/extractor"
	"github.com/mvp-joe/pkghome/internal/moves"
	"github.com/mvp-joe/pkghome/internal/record"
)

// ErrProjectNotFound indicates a project directory that does not exist.
var ErrProjectNotFound = errors.New("project not found")

// evaluationParent is the directory name marking evaluation projects.
const evaluationParent = "test"

// Processor runs the pipeline for single projects.
type Processor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the base logger. Each project run derives a child logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor creates a processor for a validated configuration.
func NewProcessor(cfg *config.Config, opts ...Option) *Processor {
	p := &Processor{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analysis is everything computed for a project before output.
type Analysis struct {
	ProjectDir string
	Files      []SourceFile
	Packages   []string
	Extraction *extractor.Result
	Candidates candidate.Map
	Distances  *distance.Result
}

// Stats summarizes one processed project.
type Stats struct {
	Project     string
	RunID       string
	Mode        string
	OutputDir   string
	Files       int
	FailedFiles int
	Packages    int
	Methods     int
	Records     int // training records or evaluation files
	Skipped     int // methods without candidates
	Confirmed   int // evaluation methods with a confirmed move
	Duration    time.Duration
}

// ResolveMode turns "auto" into a concrete mode for projectDir.
func ResolveMode(mode, projectDir string) string {
	if mode != config.ModeAuto {
		return mode
	}
	if filepath.Base(filepath.Dir(filepath.Clean(projectDir))) == evaluationParent {
		return config.ModeEvaluation
	}
	return config.ModeTraining
}

// Analyze discovers, extracts and aggregates a project.
func (p *Processor) Analyze(ctx context.Context, projectDir string) (*Analysis, error) {
	return p.analyze(ctx, projectDir, p.logger)
}

func (p *Processor) analyze(ctx context.Context, projectDir string, logger *slog.Logger) (*Analysis, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectDir)
	}

	discovery, err := NewFileDiscovery(abs, p.cfg.Paths.Sources, p.cfg.Paths.Ignore, p.cfg.Paths.SkipTestSources)
	if err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	packages := Packages(files)
	logger.Debug("discovered sources",
		slog.Int("files", len(files)),
		slog.Int("packages", len(packages)))

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	ex := extractor.New(
		extractor.WithLogger(logger),
		extractor.WithMaxDepth(p.cfg.Extractor.MaxResolveDepth),
		extractor.WithTypeCacheSize(p.cfg.Extractor.TypeCacheSize),
	)
	extraction, err := ex.Extract(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to extract facts: %w", err)
	}

	builder := candidate.NewBuilder(packages, candidate.WithLogger(logger))
	for _, f := range extraction.Files {
		builder.AddFile(f.PackageName, f.UsedImports, f.CallPackages)
	}
	candidates, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build candidate packages: %w", err)
	}

	calc := distance.NewCalculator(packages,
		distance.WithLogger(logger),
		distance.WithExcludeBoilerplates(p.cfg.Extractor.ExcludeBoilerplates),
		distance.WithExcludeDeclaredBoilerplates(p.cfg.Extractor.ExcludeDeclaredBoilerplates),
	)

	return &Analysis{
		ProjectDir: abs,
		Files:      files,
		Packages:   packages,
		Extraction: extraction,
		Candidates: candidates,
		Distances:  calc.Calculate(extraction.Files),
	}, nil
}

// Process runs the full pipeline for one project and writes its records to
// outputDir.
func (p *Processor) Process(ctx context.Context, projectDir, outputDir string) (*Stats, error) {
	start := time.Now()
	mode := ResolveMode(p.cfg.Output.Mode, projectDir)
	stats := &Stats{
		Project:   filepath.Base(filepath.Clean(projectDir)),
		RunID:     uuid.NewString(),
		Mode:      mode,
		OutputDir: outputDir,
	}
	logger := p.logger.With(
		slog.String("project", stats.Project),
		slog.String("mode", mode),
		slog.String("run_id", stats.RunID),
	)

	analysis, err := p.analyze(ctx, projectDir, logger)
	if err != nil {
		logger.Error("project failed", slog.String("error", err.Error()))
		return nil, err
	}
	stats.Files = len(analysis.Extraction.Files)
	stats.FailedFiles = len(analysis.Extraction.Failed)
	stats.Packages = len(analysis.Packages)
	stats.Methods = len(analysis.Distances.Methods)

	formatter := record.Formatter{
		MethodNameLength:  p.cfg.Extractor.MethodNameLength,
		PackageNameLength: p.cfg.Extractor.PackageNameLength,
	}

	switch mode {
	case config.ModeTraining:
		err = p.writeTraining(analysis, formatter, outputDir, stats)
	case config.ModeEvaluation:
		err = p.writeEvaluation(analysis, formatter, outputDir, stats)
	default:
		err = fmt.Errorf("%w: %s", config.ErrInvalidMode, mode)
	}
	if err != nil {
		logger.Error("project failed", slog.String("error", err.Error()))
		return nil, err
	}

	stats.Duration = time.Since(start)
	logger.Info("project complete",
		slog.Int("files", stats.Files),
		slog.Int("failed_files", stats.FailedFiles),
		slog.Int("packages", stats.Packages),
		slog.Int("methods", stats.Methods),
		slog.Int("records", stats.Records),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

// writeTraining emits, for every method and every other candidate of its
// home package, a stay record and the mirrored move record.
func (p *Processor) writeTraining(a *Analysis, f record.Formatter, outputDir string, stats *Stats) (err error) {
	w, err := record.NewTrainingWriter(outputDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close training files: %w", cerr)
		}
	}()

	for _, m := range a.Distances.Methods {
		home := m.Package
		others := a.Candidates.Others(home, home)
		if len(others) == 0 {
			stats.Skipped++
			continue
		}

		dHome := m.Distance(a.Distances.Packages[home])
		for _, target := range others {
			dTarget := m.Distance(a.Distances.Packages[target])
			if err := w.Write(record.Record{
				Names:     f.Names(m.Name(), home, target),
				Distances: record.Distances(dHome, dTarget, record.LabelStay),
			}); err != nil {
				return err
			}
			if err := w.Write(record.Record{
				Names:     f.Names(m.Name(), target, home),
				Distances: record.Distances(dTarget, dHome, record.LabelMove),
			}); err != nil {
				return err
			}
		}
	}
	stats.Records = w.Count()
	return nil
}

// writeEvaluation emits one file per method. The file ordinal advances for
// every method, including skipped ones.
func (p *Processor) writeEvaluation(a *Analysis, f record.Formatter, outputDir string, stats *Stats) error {
	idx, err := moves.Load(p.cfg.Moves.Path, filepath.Base(a.ProjectDir))
	if err != nil {
		return err
	}

	pathRoot := p.cfg.Moves.PathRoot
	if pathRoot == "" {
		pathRoot = filepath.Dir(filepath.Dir(a.ProjectDir))
	}
	pathRoot, err = filepath.Abs(pathRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve moves path root: %w", err)
	}

	w, err := record.NewEvaluationWriter(outputDir)
	if err != nil {
		return err
	}

	for ordinal, m := range a.Distances.Methods {
		home, candidates, correct, ok := evaluationCase(a.Candidates, idx, m, moveKeyPath(pathRoot, m.FilePath))
		if !ok {
			stats.Skipped++
			continue
		}
		if correct != record.NoMove {
			stats.Confirmed++
		}

		dHome := m.Distance(a.Distances.Packages[home])
		records := make([]record.Record, 0, len(candidates))
		for _, target := range candidates {
			records = append(records, record.Record{
				Names:     f.Names(m.Name(), home, target),
				Distances: record.Distances(dHome, m.Distance(a.Distances.Packages[target]), record.LabelStay),
			})
		}
		if err := w.Write(ordinal, correct, records); err != nil {
			return err
		}
	}
	stats.Records = w.Count()
	return nil
}

// evaluationCase picks the package treated as the method's current home, its
// other candidates and the index of the correct answer. A confirmed move
// places the method in its moved-to package and expects the original one.
func evaluationCase(cands candidate.Map, idx *moves.Index, m *entity.Method, keyPath string) (string, []string, int, bool) {
	home := m.Package
	correct := record.NoMove

	move, confirmed := idx.Confirm(m, keyPath)
	if confirmed {
		home = move.PackageMoved
	}
	if !cands.Has(home) {
		return "", nil, 0, false
	}

	others := cands.Others(home, home)
	if confirmed {
		correct = indexOf(others, move.PackageOrig)
		if correct < 0 {
			return "", nil, 0, false
		}
	}
	if len(others) == 0 {
		return "", nil, 0, false
	}
	return home, others, correct, true
}

// moveKeyPath renders a method's file as "/<path relative to root>".
func moveKeyPath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	return "/" + filepath.ToSlash(rel)
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}
