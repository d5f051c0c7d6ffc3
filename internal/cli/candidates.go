package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pkghome/internal/export"
	"github.com/mvp-joe/pkghome/internal/preprocess"
)

var (
	candidatesProjectFlag string
	candidatesNeo4jFlag   bool
)

var candidatesFlagBindings = map[string]string{
	"paths.skip_test_sources": "skip-test-sources",
	"neo4j.uri":               "neo4j-uri",
	"neo4j.user":              "neo4j-user",
	"neo4j.password":          "neo4j-password",
	"neo4j.database":          "neo4j-database",
}

// candidatesCmd represents the candidates command
var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Show the candidate packages of a project",
	Long: `Candidates analyzes a project and prints, for every package, the packages
its methods could be moved to.

With --neo4j the candidate graph, the analyzable methods and their distances
to candidate packages are also loaded into Neo4j. Previously exported data
of the same project is replaced.

Examples:
  pkghome candidates --project ./dataset/training/commons-io

  pkghome candidates --project ./commons-io --neo4j --neo4j-uri bolt://localhost:7687
`,
	RunE: runCandidates,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)

	flags := candidatesCmd.Flags()
	flags.StringVarP(&candidatesProjectFlag, "project", "p", "", "Project directory to analyze")
	flags.BoolVar(&candidatesNeo4jFlag, "neo4j", false, "Export the candidate graph to Neo4j")
	flags.Bool("skip-test-sources", true, "Ignore test sources")
	flags.String("neo4j-uri", "", "Neo4j bolt URI")
	flags.String("neo4j-user", "neo4j", "Neo4j username")
	flags.String("neo4j-password", "", "Neo4j password")
	flags.String("neo4j-database", "neo4j", "Neo4j database")
	_ = candidatesCmd.MarkFlagRequired("project")
}

func runCandidates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), candidatesFlagBindings)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(false)
	defer cancel()

	analysis, err := preprocess.NewProcessor(cfg).Analyze(ctx, candidatesProjectFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, pkg := range analysis.Candidates.Packages() {
		others := analysis.Candidates.Others(pkg, pkg)
		fmt.Fprintf(out, "%s: %s\n", pkg, strings.Join(others, " "))
	}

	if !candidatesNeo4jFlag {
		return nil
	}

	exporter, err := export.NewNeo4jExporter(ctx, cfg.Neo4j, export.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer exporter.Close(ctx)

	project := filepath.Base(analysis.ProjectDir)
	return exporter.Export(ctx, export.NewGraph(project, analysis.Candidates, analysis.Distances))
}
