package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/cncc/internal/clang"
	"github.com/leapstack-labs/cncc/internal/cli/config"
	"github.com/leapstack-labs/cncc/internal/cli/output"
	clitestutil "github.com/leapstack-labs/cncc/internal/cli/testutil"
	"github.com/leapstack-labs/cncc/internal/testutil"
	"github.com/leapstack-labs/cncc/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shapesFile = "testdata/src/shapes.cc"
	linesFile  = "testdata/src/lines.cc"
	brokenFile = "testdata/src/broken.cc"

	shapeWarning = `warning: testdata/src/shapes.cc:3:7: "shape" does not conform to pattern "([A-Z][a-z]+)+" for class_decl`
	totalWarning = `warning: testdata/src/shapes.cc:6:5: "Total" does not conform to pattern "[a-z][a-zA-Z]*" for var_decl`
)

type harness struct {
	cc     *CommandContext
	clang  *testutil.FakeClang
	r      *clitestutil.TestRenderer
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, mutate func(cfg *config.Config)) *harness {
	t.Helper()
	fc := testutil.NewFakeClang(t, testutil.FakeClangOptions{
		ByBasename: map[string]string{
			"shapes.cc": "testdata/src/shapes.json",
			"lines.cc":  "testdata/src/lines.json",
		},
	})
	cfg := &config.Config{
		Style:        "testdata/cncc.style",
		Jobs:         1,
		OutputFormat: "plain",
		Clang:        fc.Bin,
	}
	if mutate != nil {
		mutate(cfg)
	}

	r := clitestutil.NewTestRenderer(output.Mode(cfg.OutputFormat), false)
	return &harness{
		cc: &CommandContext{
			Cfg:      cfg,
			Logger:   testutil.NewTestLogger(t),
			Renderer: r.Renderer,
		},
		clang:  fc,
		r:      r,
		out:    r.Out,
		errOut: r.ErrOut,
	}
}

func (h *harness) run(files ...string) error {
	return RunScan(context.Background(), h.cc, files)
}

func TestRunScanNoFiles(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.Style = "testdata/does-not-exist.style" })

	require.NoError(t, h.run())
	assert.Empty(t, h.out.String())
	assert.Empty(t, h.errOut.String())
	assert.Nil(t, h.clang.Argv(t))
}

func TestRunScanReportsViolations(t *testing.T) {
	for _, jobs := range []int{1, 4} {
		h := newHarness(t, func(cfg *config.Config) { cfg.Jobs = jobs })

		require.NoError(t, h.run(shapesFile, linesFile))
		assert.Equal(t, shapeWarning+"\n"+totalWarning+"\n", h.r.ErrorOutput(), "jobs=%d", jobs)
		assert.Empty(t, h.r.Output())
		clitestutil.AssertNoANSI(t, h.r.ErrorOutput())
	}
}

func TestRunScanIsIdempotent(t *testing.T) {
	first := newHarness(t, nil)
	require.NoError(t, first.run(shapesFile))
	second := newHarness(t, nil)
	require.NoError(t, second.run(shapesFile))

	assert.Equal(t, first.errOut.String(), second.errOut.String())
}

func TestRunScanContinuesAfterParseFailure(t *testing.T) {
	h := newHarness(t, nil)

	err := h.run(brokenFile, shapesFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files could not be parsed")

	stderr := h.errOut.String()
	assert.Contains(t, stderr, "error: testdata/src/broken.cc: ")
	assert.Contains(t, stderr, "no AST produced")
	assert.Contains(t, stderr, shapeWarning)
	assert.Contains(t, stderr, totalWarning)
}

func TestRunScanConfigErrorsAreFatal(t *testing.T) {
	t.Run("missing style", func(t *testing.T) {
		h := newHarness(t, func(cfg *config.Config) { cfg.Style = "testdata/does-not-exist.style" })

		err := h.run(shapesFile)
		var notFound *style.ConfigNotFoundError
		require.True(t, errors.As(err, &notFound), "got %v", err)
		assert.Nil(t, h.clang.Argv(t), "nothing may be parsed")
		assert.Empty(t, h.errOut.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.style")
		testutil.WriteFile(t, path, "- kind: clas_decl\n  pattern: \"[A-Z]+\"\n")
		h := newHarness(t, func(cfg *config.Config) { cfg.Style = path })

		err := h.run(shapesFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "class_decl")
		assert.Nil(t, h.clang.Argv(t))
	})

	t.Run("missing compilation database", func(t *testing.T) {
		h := newHarness(t, func(cfg *config.Config) { cfg.DBDir = t.TempDir() })

		err := h.run(shapesFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compilation database")
		assert.Nil(t, h.clang.Argv(t))
	})

	t.Run("missing clang", func(t *testing.T) {
		h := newHarness(t, func(cfg *config.Config) { cfg.Clang = "cncc-no-such-clang-binary" })

		err := h.run(shapesFile)
		var initErr *clang.InitError
		require.True(t, errors.As(err, &initErr), "got %v", err)
	})
}

func TestRunScanUsesCompileDatabase(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	dbDir := t.TempDir()
	buildDir := filepath.Join(cwd, "build")
	data, err := json.Marshal([]map[string]any{{
		"directory": buildDir,
		"file":      filepath.Join(cwd, shapesFile),
		"arguments": []string{"c++", "-DSHAPES=1", "-Iinclude", "-c", shapesFile, "-o", "shapes.o"},
	}})
	require.NoError(t, err)
	testutil.WriteFile(t, filepath.Join(dbDir, "compile_commands.json"), string(data))

	h := newHarness(t, func(cfg *config.Config) {
		cfg.DBDir = dbDir
		cfg.ClangArgs = []string{"-std=c++17"}
	})
	require.NoError(t, h.run(shapesFile))

	assert.Equal(t, []string{
		"-fsyntax-only", "-fno-color-diagnostics", "-Xclang", "-ast-dump=json",
		"-std=c++17", "-DSHAPES=1", "-I" + filepath.Join(buildDir, "include"), shapesFile,
	}, h.clang.Argv(t))
}

func TestRunScanFailOnViolation(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.FailOnViolation = true })
	err := h.run(shapesFile)
	assert.ErrorIs(t, err, ErrViolations)

	clean := newHarness(t, func(cfg *config.Config) { cfg.FailOnViolation = true })
	assert.NoError(t, clean.run(linesFile))
}

func TestRunScanJSON(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.OutputFormat = "json" })

	err := h.run(shapesFile, linesFile, brokenFile)
	require.Error(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &doc))
	require.Len(t, doc.Violations, 2)
	assert.Equal(t, "shape", doc.Violations[0].DisplayName)
	assert.Equal(t, "Total", doc.Violations[1].DisplayName)
	require.Len(t, doc.Errors, 1)
	assert.Equal(t, brokenFile, doc.Errors[0].File)
	assert.Equal(t, output.Summary{Files: 2, Violations: 2, Failed: 1}, doc.Summary)
	assert.Empty(t, h.errOut.String())
}

func TestRunScanSummary(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.Summary = true })

	require.NoError(t, h.run(shapesFile, linesFile))
	out := h.out.String()
	assert.Contains(t, out, "class_decl")
	assert.Contains(t, out, "var_decl")
	assert.Contains(t, out, "2 violations in 2 files")
}

func TestRunScanBaseline(t *testing.T) {
	db := filepath.Join(t.TempDir(), "baseline.db")

	record := newHarness(t, func(cfg *config.Config) {
		cfg.Baseline = db
		cfg.UpdateBaseline = true
	})
	require.NoError(t, record.run(shapesFile))
	assert.Equal(t, shapeWarning+"\n"+totalWarning+"\n", record.errOut.String())

	check := newHarness(t, func(cfg *config.Config) {
		cfg.Baseline = db
		cfg.OutputFormat = "json"
		cfg.FailOnViolation = true
	})
	require.NoError(t, check.run(shapesFile, linesFile))

	var doc output.Document
	require.NoError(t, json.Unmarshal(check.out.Bytes(), &doc))
	assert.Empty(t, doc.Violations)
	assert.Equal(t, output.Summary{Files: 2, Suppressed: 2}, doc.Summary)
}

func TestRescan(t *testing.T) {
	stylePath := filepath.Join(t.TempDir(), "cncc.style")
	original, err := os.ReadFile("testdata/cncc.style")
	require.NoError(t, err)
	testutil.WriteFile(t, stylePath, string(original))

	h := newHarness(t, func(cfg *config.Config) { cfg.Style = stylePath })
	files := []string{shapesFile, linesFile}
	s, err := newScanSession(h.cc, files)
	require.NoError(t, err)
	defer s.close()
	ctx := context.Background()

	t.Run("changed input only", func(t *testing.T) {
		h.r.Reset()
		require.NoError(t, s.rescan(ctx, files, []string{linesFile}))
		assert.Empty(t, h.errOut.String())

		require.NoError(t, s.rescan(ctx, files, []string{shapesFile}))
		assert.Equal(t, shapeWarning+"\n"+totalWarning+"\n", h.errOut.String())
	})

	t.Run("untracked file", func(t *testing.T) {
		h.errOut.Reset()
		require.NoError(t, s.rescan(ctx, files, []string{"testdata/src/other.cc"}))
		assert.Empty(t, h.errOut.String())
	})

	t.Run("style change rescans everything", func(t *testing.T) {
		h.errOut.Reset()
		testutil.WriteFile(t, stylePath, "- kind: var_decl\n  pattern: \"[A-Z][a-zA-Z]*\"\n")
		require.NoError(t, s.rescan(ctx, files, []string{stylePath}))
		assert.Equal(t,
			`warning: testdata/src/shapes.cc:5:5: "radius" does not conform to pattern "[A-Z][a-zA-Z]*" for var_decl`+"\n",
			h.errOut.String())
	})

	t.Run("broken style keeps previous rules", func(t *testing.T) {
		h.errOut.Reset()
		testutil.WriteFile(t, stylePath, "- kind: var_decl\n")
		err := s.rescan(ctx, files, []string{stylePath})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "style not reloaded")

		require.NoError(t, s.rescan(ctx, files, []string{shapesFile}))
		assert.Contains(t, h.errOut.String(), `"radius"`)
	})
}
