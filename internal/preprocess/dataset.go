package preprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Dataset split directories. When present, projects live one level below them.
var splitDirs = []string{"training", "test"}

// Job is one project to process and where its records go.
type Job struct {
	ProjectDir string
	OutputDir  string
}

// Name returns the project name.
func (j Job) Name() string {
	return filepath.Base(filepath.Clean(j.ProjectDir))
}

// DiscoverProjects lists the projects of a dataset. Every immediate
// subdirectory is a project; if "training" or "test" split directories exist,
// their subdirectories are the projects instead and outputs keep the split.
func DiscoverProjects(datasetDir, outputDir string) ([]Job, error) {
	info, err := os.Stat(datasetDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, datasetDir)
	}

	var splits []string
	for _, split := range splitDirs {
		if fi, err := os.Stat(filepath.Join(datasetDir, split)); err == nil && fi.IsDir() {
			splits = append(splits, split)
		}
	}

	if len(splits) == 0 {
		return subdirJobs(datasetDir, outputDir)
	}

	var jobs []Job
	for _, split := range splits {
		splitJobs, err := subdirJobs(filepath.Join(datasetDir, split), filepath.Join(outputDir, split))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, splitJobs...)
	}
	return jobs, nil
}

func subdirJobs(dir, outputDir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		jobs = append(jobs, Job{
			ProjectDir: filepath.Join(dir, e.Name()),
			OutputDir:  filepath.Join(outputDir, e.Name()),
		})
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ProjectDir < jobs[k].ProjectDir })
	return jobs, nil
}

// ProgressReporter receives dataset progress callbacks. Calls may come from
// several workers at once.
type ProgressReporter interface {
	// OnProjectsStart is called once with the number of projects.
	OnProjectsStart(total int)

	// OnProjectDone is called after each project, with its error if it failed.
	OnProjectDone(project string, err error)

	// OnComplete is called when all scheduled projects finished.
	OnComplete(report *Report)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnProjectsStart(total int)               {}
func (n *NoOpProgressReporter) OnProjectDone(project string, err error) {}
func (n *NoOpProgressReporter) OnComplete(report *Report)               {}

// Failure records a project that could not be processed.
type Failure struct {
	Job Job
	Err error
}

// Report collects the outcome of a dataset run, in job order.
type Report struct {
	Succeeded []*Stats
	Failed    []Failure
}

// Records returns the total number of records written.
func (r *Report) Records() int {
	total := 0
	for _, s := range r.Succeeded {
		total += s.Records
	}
	return total
}

// Err joins the project failures, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Job.Name(), f.Err))
	}
	return errors.Join(errs...)
}

// ProcessDataset processes jobs with at most workers projects at a time. A
// failing project is recorded in the report and does not stop the others.
// Cancelling ctx stops scheduling new projects; the context error is
// returned together with the partial report.
func (p *Processor) ProcessDataset(ctx context.Context, jobs []Job, workers int, progress ProgressReporter) (*Report, error) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	if workers <= 0 {
		workers = 1
	}
	progress.OnProjectsStart(len(jobs))

	stats := make([]*Stats, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)

	scheduled := 0
	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			// Each worker owns slot i.
			stats[i], errs[i] = p.Process(ctx, job.ProjectDir, job.OutputDir)
			progress.OnProjectDone(job.Name(), errs[i])
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{}
	for i := 0; i < scheduled; i++ {
		if errs[i] != nil {
			report.Failed = append(report.Failed, Failure{Job: jobs[i], Err: errs[i]})
			continue
		}
		report.Succeeded = append(report.Succeeded, stats[i])
	}

	p.logger.Info("dataset complete",
		slog.Int("projects", len(jobs)),
		slog.Int("scheduled", scheduled),
		slog.Int("succeeded", len(report.Succeeded)),
		slog.Int("failed", len(report.Failed)),
		slog.Int("records", report.Records()))
	progress.OnComplete(report)

	return report, ctx.Err()
}
