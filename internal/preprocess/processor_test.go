package preprocess

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pkghome/internal/candidate"
	"github.com/mvp-joe/pkghome/internal/config"
	"github.com/mvp-joe/pkghome/internal/entity"
	"github.com/mvp-joe/pkghome/internal/moves"
	"github.com/mvp-joe/pkghome/internal/record"
)

// Test Plan for Processor:
// - Auto mode picks evaluation under a "test" directory, training otherwise
// - Analyze builds the full candidate map and analyzable methods of a project
// - Training output pairs every stay record with its mirrored move record
// - Evaluation output writes one file per method named by its ordinal, with
//   the correct index for confirmed moves and -1 otherwise
// - A missing moves file or project directory fails the project

const shopRoot = "../../testdata/java/shop"

var shopPackages = []string{"com.shop.model", "com.shop.service", "com.shop.util"}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Workers = 2
	return cfg
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestResolveMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.ModeEvaluation, ResolveMode(config.ModeAuto, "/data/test/shop"))
	assert.Equal(t, config.ModeEvaluation, ResolveMode(config.ModeAuto, "/data/test/shop/"))
	assert.Equal(t, config.ModeTraining, ResolveMode(config.ModeAuto, "/data/training/shop"))
	assert.Equal(t, config.ModeTraining, ResolveMode(config.ModeTraining, "/data/test/shop"))
	assert.Equal(t, config.ModeEvaluation, ResolveMode(config.ModeEvaluation, "/data/shop"))
}

func TestAnalyze_Shop(t *testing.T) {
	t.Parallel()

	a, err := NewProcessor(testConfig()).Analyze(context.Background(), shopRoot)
	require.NoError(t, err)

	assert.Equal(t, shopPackages, a.Packages)
	assert.Len(t, a.Files, 4)
	assert.Empty(t, a.Extraction.Failed)

	for _, pkg := range shopPackages {
		assert.Equal(t, shopPackages, a.Candidates.Candidates(pkg), pkg)
	}

	var names []string
	for _, m := range a.Distances.Methods {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"price",
		"isEmpty", "computeTax", "addItem",
		"process", "addAll", "item",
		"log", "trace", "blank",
	}, names)
}

func TestAnalyze_ProjectNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewProcessor(testConfig()).Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProcess_Training(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	stats, err := NewProcessor(testConfig()).Process(context.Background(), shopRoot, out)
	require.NoError(t, err)

	assert.Equal(t, "shop", stats.Project)
	assert.Equal(t, config.ModeTraining, stats.Mode)
	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 10, stats.Methods)
	assert.Equal(t, 40, stats.Records)

	names := readLines(t, filepath.Join(out, record.TrainingNamesFile))
	distances := readLines(t, filepath.Join(out, record.TrainingDistancesFile))
	require.Len(t, names, 40)
	require.Len(t, distances, 40)

	for i := 0; i < len(names); i += 2 {
		stay, move := strings.Fields(names[i]), strings.Fields(names[i+1])
		require.Len(t, stay, 15)
		// Method tokens match, package slots are swapped.
		assert.Equal(t, stay[:5], move[:5])
		assert.Equal(t, stay[5:10], move[10:15])
		assert.Equal(t, stay[10:15], move[5:10])

		d0, d1 := strings.Fields(distances[i]), strings.Fields(distances[i+1])
		assert.Equal(t, "0", d0[2])
		assert.Equal(t, "1", d1[2])
		assert.Equal(t, d0[0], d1[1])
		assert.Equal(t, d0[1], d1[0])
	}

	assert.Equal(t, "* * * * price * * com shop model * * com shop service", names[0])
}

func TestProcess_Evaluation(t *testing.T) {
	t.Parallel()

	dataset := t.TempDir()
	project := filepath.Join(dataset, "test", "shop")
	require.NoError(t, os.CopyFS(project, os.DirFS(shopRoot)))

	movesPath := filepath.Join(dataset, "move.json")
	require.NoError(t, os.WriteFile(movesPath, []byte(`{
  "shop": [{
    "signature": "process(Order)",
    "file_path": "/test/shop/com/shop/service/OrderService.java",
    "line_from": 16,
    "line_to": 22,
    "package_orig": "com.shop.service",
    "class_name": "OrderService",
    "method_name": "process",
    "package_moved": "com.shop.model"
  }]
}`), 0644))

	cfg := testConfig()
	cfg.Moves.Path = movesPath
	out := t.TempDir()

	stats, err := NewProcessor(cfg).Process(context.Background(), project, out)
	require.NoError(t, err)
	assert.Equal(t, config.ModeEvaluation, stats.Mode)
	assert.Equal(t, 10, stats.Records)
	assert.Equal(t, 1, stats.Confirmed)

	// process is the fifth analyzable method.
	moved := readLines(t, filepath.Join(out, "4.txt"))
	require.Len(t, moved, 3)
	assert.Equal(t, "0", moved[0])
	assert.True(t, strings.HasPrefix(moved[1], "* * * * process * * com shop model * * com shop service "))
	assert.True(t, strings.HasPrefix(moved[2], "* * * * process * * com shop model * * com shop util "))

	fields := strings.Fields(moved[1])
	require.Len(t, fields, 18)
	dHome, err := strconv.ParseFloat(fields[15], 64)
	require.NoError(t, err)
	dTarget, err := strconv.ParseFloat(fields[16], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.0-3.0/14.0, dHome, 1e-12)
	assert.InDelta(t, 1.0-1.0/9.0, dTarget, 1e-12)
	assert.Equal(t, "0", fields[17])

	control := readLines(t, filepath.Join(out, "0.txt"))
	require.Len(t, control, 3)
	assert.Equal(t, "-1", control[0])
	assert.True(t, strings.HasPrefix(control[1], "* * * * price * * com shop model * * com shop service "))
}

func TestProcess_EvaluationWithoutMoves(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Output.Mode = config.ModeEvaluation
	cfg.Moves.Path = filepath.Join(t.TempDir(), "absent.json")

	_, err := NewProcessor(cfg).Process(context.Background(), shopRoot, t.TempDir())
	assert.ErrorIs(t, err, moves.ErrMovesNotFound)
}

func TestEvaluationCase(t *testing.T) {
	t.Parallel()

	b := candidate.NewBuilder([]string{"pkg.moved", "pkg.orig", "pkg.other", "pkg.alone"})
	b.AddFile("pkg.moved", nil, []string{"pkg.orig", "pkg.other"})
	cands, err := b.Build()
	require.NoError(t, err)

	const keyPath = "/test/p/pkg/orig/A.java"
	method := entity.NewMethod("pkg.orig", entity.Method("pkg.orig", "run", "run()"), "/abs/A.java", 3, 9)
	idx := moves.NewIndex([]moves.Move{{
		Signature:    "run()",
		FilePath:     keyPath,
		LineFrom:     3,
		LineTo:       9,
		PackageOrig:  "pkg.orig",
		PackageMoved: "pkg.moved",
	}})

	t.Run("confirmed move", func(t *testing.T) {
		home, others, correct, ok := evaluationCase(cands, idx, method, keyPath)
		require.True(t, ok)
		assert.Equal(t, "pkg.moved", home)
		assert.Equal(t, []string{"pkg.orig", "pkg.other"}, others)
		assert.Equal(t, 0, correct)
	})

	t.Run("no move recorded", func(t *testing.T) {
		home, others, correct, ok := evaluationCase(cands, moves.NewIndex(nil), method, keyPath)
		require.True(t, ok)
		assert.Equal(t, "pkg.orig", home)
		assert.Equal(t, []string{"pkg.moved"}, others)
		assert.Equal(t, record.NoMove, correct)
	})

	t.Run("original package not a candidate", func(t *testing.T) {
		stray := moves.NewIndex([]moves.Move{{
			Signature: "run()", FilePath: keyPath, LineFrom: 3, LineTo: 9,
			PackageOrig: "pkg.orig", PackageMoved: "pkg.alone",
		}})
		_, _, _, ok := evaluationCase(cands, stray, method, keyPath)
		assert.False(t, ok)
	})

	t.Run("no candidates", func(t *testing.T) {
		lonely := entity.NewMethod("pkg.alone", entity.Method("pkg.alone", "run", "run()"), "/abs/B.java", 1, 2)
		_, _, _, ok := evaluationCase(cands, idx, lonely, "/test/p/pkg/alone/B.java")
		assert.False(t, ok)
	})
}
