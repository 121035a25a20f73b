package commands

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchSources(t *testing.T) string {
	t.Helper()
	return testutil.SetupTestSources(t, map[string]string{
		"a.R":       "select(a)",
		"b.R":       "select(name, age) %>% filter(age > 18)",
		"c.dplyr":   "select(c) %>% arrange(c)",
		"notes.txt": "skipped",
	})
}

func TestExpandSources(t *testing.T) {
	dir := batchSources(t)

	files, err := expandSources([]string{dir, filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.R"),
		filepath.Join(dir, "b.R"),
		filepath.Join(dir, "c.dplyr"),
		filepath.Join(dir, "notes.txt"),
	}, files)

	_, err = expandSources([]string{filepath.Join(dir, "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTranspileFiles_Order(t *testing.T) {
	dir := batchSources(t)
	files := []string{
		filepath.Join(dir, "c.dplyr"),
		filepath.Join(dir, "a.R"),
		filepath.Join(dir, "b.R"),
	}
	cc, _, _ := newTestContext(t, testutil.TestConfig(), 0)

	results := TranspileFiles(context.Background(), cc, files, 2, false)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, files[i], res.File)
		assert.NoError(t, res.Err)
	}
	assert.Contains(t, results[0].SQL, "ORDER BY \"c\"")
	assert.Equal(t, "SELECT \"a\"\nFROM \"data\"", results[1].SQL)
	assert.Equal(t, adultsSQL, results[2].SQL)
}

func TestTranspileFiles_Failures(t *testing.T) {
	dir := testutil.SetupTestSources(t, map[string]string{
		"bad.R":  "select(a) %% b",
		"good.R": "select(a)",
	})
	files := []string{filepath.Join(dir, "bad.R"), filepath.Join(dir, "missing.R"), filepath.Join(dir, "good.R")}
	cc, _, _ := newTestContext(t, testutil.TestConfig(), 0)

	results := TranspileFiles(context.Background(), cc, files, 4, false)
	assert.Equal(t, ExitTranspilation, ExitCode(results[0].Err))
	assert.ErrorIs(t, results[1].Err, os.ErrNotExist)
	assert.NoError(t, results[2].Err)

	results = TranspileFiles(context.Background(), cc, files, 1, true)
	assert.Error(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
}

func TestBatch_Markdown(t *testing.T) {
	dir := batchSources(t)

	res := testutil.Execute(t, NewBatchCommand(), testutil.TestConfig(), "", dir)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "- ✓ a.R\n")
	assert.Contains(t, res.Out, adultsSQL)
	assert.Contains(t, res.Out, "3/3 succeeded in")
	assert.NotContains(t, res.Out, "notes.txt")
	testutil.AssertValidMarkdown(t, res.Out)
}

func TestBatch_OutDir(t *testing.T) {
	dir := batchSources(t)
	outDir := filepath.Join(t.TempDir(), "sql")

	res := testutil.Execute(t, NewBatchCommand(), testutil.TestConfig(), "", "--out-dir", outDir, dir)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "→ "+filepath.Join(outDir, "b.sql"))

	data, err := os.ReadFile(filepath.Join(outDir, "b.sql"))
	require.NoError(t, err)
	assert.Equal(t, adultsSQL+"\n", string(data))
	assert.FileExists(t, filepath.Join(outDir, "a.sql"))
	assert.FileExists(t, filepath.Join(outDir, "c.sql"))
}

func TestBatch_Failure(t *testing.T) {
	dir := batchSources(t)
	testutil.WriteFile(t, dir, "z.R", "rename(b = a)")

	res := testutil.Execute(t, NewBatchCommand(), testutil.TestConfig(), "", dir)
	require.Error(t, res.Err)
	assert.True(t, IsReported(res.Err))
	assert.Equal(t, ExitTranspilation, ExitCode(res.Err))

	var batchErr *BatchError
	require.True(t, errors.As(res.Err, &batchErr))
	assert.Equal(t, 1, batchErr.Failed)
	assert.Equal(t, 4, batchErr.Total)
	assert.Contains(t, res.Out, "- ✗ z.R")
	assert.Contains(t, res.Out, "3/4 succeeded in")
}

func TestBatch_JSON(t *testing.T) {
	dir := batchSources(t)
	testutil.WriteFile(t, dir, "z.R", "select(a) %% b")
	cfg := testutil.TestConfig(func(c *config.Config) {
		c.Output = "json"
		c.Batch.Concurrency = 2
	})

	res := testutil.Execute(t, NewBatchCommand(), cfg, "", dir)
	require.Error(t, res.Err)

	var envelopes []output.Envelope
	require.NoError(t, json.Unmarshal([]byte(res.Out), &envelopes))
	require.Len(t, envelopes, 4)
	assert.True(t, envelopes[0].Success)
	assert.Equal(t, filepath.Join(dir, "a.R"), envelopes[0].Metadata.Input.Source)
	assert.False(t, envelopes[3].Success)
	require.NotNil(t, envelopes[3].Error)
	assert.Equal(t, output.TopicLex, envelopes[3].Error.Topic)
}

func TestBatch_NoSources(t *testing.T) {
	dir := testutil.SetupTestSources(t, map[string]string{"notes.txt": "x"})

	res := testutil.Execute(t, NewBatchCommand(), testutil.TestConfig(), "", dir)
	require.Error(t, res.Err)
	assert.Equal(t, ExitInvalidArgs, ExitCode(res.Err))
}
