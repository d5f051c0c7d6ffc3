package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pkghome/internal/config"
	"github.com/mvp-joe/pkghome/internal/preprocess"
)

var (
	projectFlag string
	datasetFlag string
	quietFlag   bool
)

// preprocessFlagBindings maps config keys to the preprocess flags that
// override them.
var preprocessFlagBindings = map[string]string{
	"output.dir":                              "output-dir",
	"output.mode":                             "mode",
	"moves.path":                              "moves",
	"moves.path_root":                         "moves-root",
	"workers":                                 "workers",
	"extractor.method_name_length":            "method-name-length",
	"extractor.package_name_length":           "package-name-length",
	"extractor.exclude_boilerplates":          "exclude-boilerplates",
	"extractor.exclude_declared_boilerplates": "exclude-declared-boilerplates",
	"paths.skip_test_sources":                 "skip-test-sources",
}

// preprocessCmd represents the preprocess command
var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Generate training or evaluation records",
	Long: `Preprocess analyzes Java projects and writes model records.

A single project is processed with --project. With --dataset, every
subdirectory of the dataset is a project; when the dataset has "training"
and "test" split directories, their subdirectories are the projects and the
output keeps the split.

In auto mode, projects whose parent directory is named "test" produce
evaluation records and all others training records.

Examples:
  # Preprocess one project into ./out
  pkghome preprocess --project ./dataset/training/commons-io

  # Preprocess a whole dataset with 8 workers
  pkghome preprocess --dataset ./dataset --output-dir ./records --workers 8

  # Evaluation records for one project
  pkghome preprocess --project ./dataset/test/guava --mode evaluation --moves ./move.json
`,
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	defaults := config.Default()
	flags := preprocessCmd.Flags()
	flags.StringVarP(&projectFlag, "project", "p", "", "Project directory to preprocess")
	flags.StringVarP(&datasetFlag, "dataset", "d", "", "Dataset directory of projects to preprocess")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	preprocessCmd.MarkFlagsMutuallyExclusive("project", "dataset")
	preprocessCmd.MarkFlagsOneRequired("project", "dataset")

	flags.StringP("output-dir", "o", defaults.Output.Dir, "Directory records are written to")
	flags.String("mode", defaults.Output.Mode, "Output mode: auto, training or evaluation")
	flags.String("moves", defaults.Moves.Path, "Moves JSON document used in evaluation mode")
	flags.String("moves-root", defaults.Moves.PathRoot, "Directory move file paths are relative to (default: the project's grandparent)")
	flags.IntP("workers", "w", defaults.Workers, "Projects processed concurrently")
	flags.Int("method-name-length", defaults.Extractor.MethodNameLength, "Method name tokens per record")
	flags.Int("package-name-length", defaults.Extractor.PackageNameLength, "Package name tokens per package")
	flags.Bool("exclude-boilerplates", defaults.Extractor.ExcludeBoilerplates, "Skip getters, setters and object methods as subjects")
	flags.Bool("exclude-declared-boilerplates", defaults.Extractor.ExcludeDeclaredBoilerplates, "Leave boilerplate methods out of package entity sets")
	flags.Bool("skip-test-sources", defaults.Paths.SkipTestSources, "Ignore test sources")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), preprocessFlagBindings)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(quietFlag)
	defer cancel()

	processor := preprocess.NewProcessor(cfg, preprocess.WithLogger(slog.Default()))
	out := cmd.OutOrStdout()
	if quietFlag {
		out = io.Discard
	}

	if projectFlag != "" {
		stats, err := processor.Process(ctx, projectFlag, cfg.Output.Dir)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("preprocessing cancelled")
			}
			return err
		}
		printStats(out, stats)
		return nil
	}

	jobs, err := preprocess.DiscoverProjects(datasetFlag, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to discover projects: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Fprintf(out, "No projects found in %s\n", datasetFlag)
		return nil
	}

	report, err := processor.ProcessDataset(ctx, jobs, cfg.Workers, NewCLIProgressReporter(out, quietFlag))
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			return fmt.Errorf("preprocessing cancelled after %d of %d projects",
				len(report.Succeeded)+len(report.Failed), len(jobs))
		}
		return err
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("%d of %d projects failed:\n%w", len(report.Failed), len(jobs), err)
	}
	return nil
}

func printStats(out io.Writer, stats *preprocess.Stats) {
	unit := "records"
	if stats.Mode == config.ModeEvaluation {
		unit = "evaluation files"
	}
	fmt.Fprintf(out, "✓ %s (%s): %s %s in %.1fs\n",
		stats.Project, stats.Mode, formatNumber(stats.Records), unit, stats.Duration.Seconds())
	fmt.Fprintf(out, "  Files:    %s (%s unparsable)\n", formatNumber(stats.Files), formatNumber(stats.FailedFiles))
	fmt.Fprintf(out, "  Packages: %s\n", formatNumber(stats.Packages))
	fmt.Fprintf(out, "  Methods:  %s (%s without candidates)\n", formatNumber(stats.Methods), formatNumber(stats.Skipped))
	if stats.Mode == config.ModeEvaluation {
		fmt.Fprintf(out, "  Moves:    %s confirmed\n", formatNumber(stats.Confirmed))
	}
	fmt.Fprintf(out, "  Output:   %s\n", stats.OutputDir)
}
