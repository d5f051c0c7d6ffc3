package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/mvp-joe/pkghome/internal/config"
)

// Neo4jExporter loads candidate graphs into Neo4j using batched UNWIND
// queries. Nodes carry the project name so several projects can share a
// database.
type Neo4jExporter struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// Option configures a Neo4jExporter.
type Option func(*Neo4jExporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Neo4jExporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewNeo4jExporter connects to the configured database and verifies
// connectivity.
func NewNeo4jExporter(ctx context.Context, cfg config.Neo4jConfig, opts ...Option) (*Neo4jExporter, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri is not configured")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	e := &Neo4jExporter{
		driver:   driver,
		database: cfg.Database,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the driver.
func (e *Neo4jExporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

func (e *Neo4jExporter) run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, e.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database))
	return err
}

// Export replaces the project's previously exported graph with g.
func (e *Neo4jExporter) Export(ctx context.Context, g Graph) error {
	logger := e.logger.With(slog.String("project", g.Project))

	for _, q := range schemaQueries {
		if err := e.run(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	if err := e.run(ctx, cleanQuery, map[string]any{"project": g.Project}); err != nil {
		return fmt.Errorf("failed to clean project graph: %w", err)
	}

	steps := []struct {
		name  string
		query string
		rows  []map[string]any
	}{
		{"packages", packagesQuery, g.Packages},
		{"candidates", candidatesQuery, g.Candidates},
		{"methods", methodsQuery, g.Methods},
		{"distances", distancesQuery, g.Distances},
	}
	for _, step := range steps {
		if len(step.rows) == 0 {
			continue
		}
		logger.Debug("loading rows", slog.String("kind", step.name), slog.Int("rows", len(step.rows)))
		if err := e.run(ctx, step.query, map[string]any{
			"project": g.Project,
			"batch":   step.rows,
		}); err != nil {
			return fmt.Errorf("failed to load %s: %w", step.name, err)
		}
	}

	logger.Info("exported candidate graph",
		slog.Int("packages", len(g.Packages)),
		slog.Int("candidate_edges", len(g.Candidates)),
		slog.Int("methods", len(g.Methods)))
	return nil
}

var schemaQueries = []string{
	"CREATE INDEX pkghome_package IF NOT EXISTS FOR (n:JavaPackage) ON (n.project, n.name)",
	"CREATE INDEX pkghome_method IF NOT EXISTS FOR (n:JavaMethod) ON (n.project, n.key)",
}

const cleanQuery = `MATCH (n {project: $project})
WHERE n:JavaPackage OR n:JavaMethod
DETACH DELETE n`

const packagesQuery = `UNWIND $batch AS row
MERGE (p:JavaPackage {project: $project, name: row.name})
SET p.entities = row.entities`

const candidatesQuery = `UNWIND $batch AS row
MATCH (a:JavaPackage {project: $project, name: row.from}),
      (b:JavaPackage {project: $project, name: row.to})
MERGE (a)-[:CANDIDATE]-(b)`

const methodsQuery = `UNWIND $batch AS row
MERGE (m:JavaMethod {project: $project, key: row.key})
SET m.name = row.name, m.signature = row.signature, m.file = row.file,
    m.line_from = row.line_from, m.line_to = row.line_to,
    m.references = row.references
WITH m, row
MATCH (p:JavaPackage {project: $project, name: row.package})
MERGE (m)-[:IN_PACKAGE]->(p)`

const distancesQuery = `UNWIND $batch AS row
MATCH (m:JavaMethod {project: $project, key: row.method}),
      (p:JavaPackage {project: $project, name: row.package})
MERGE (m)-[d:DISTANCE]->(p)
SET d.value = row.distance, d.home = row.home`
