package reindex

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/render"
)

func writeScan(t *testing.T, dir, name, title string) string {
	t.Helper()
	doc := fmt.Sprintf(`entry:
  "@attrs":
    NX_class: NXentry
    default: measurement
  title: %s
  scan_command: scan energy 7.0 7.2 0.02
  start_time: "2024-06-01T10:30:00"
  measurement:
    "@attrs":
      NX_class: NXdata
      axes: energy
      signal: intensity
    energy: [7.0, 7.1, 7.2]
    intensity: [10, 20, 30]
`, title)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func writeBrokenScan(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a\n- scan\n"), 0o644))
	return path
}

func addStaleRecord(t *testing.T, repo catalog.Repository, path string) *catalog.Record {
	t.Helper()
	added, err := repo.AddRecords(context.Background(), &catalog.Record{
		Path:       path,
		ScanNumber: catalog.ScanNumberFromPath(path),
		Metadata:   map[string]string{"title": "stale"},
	})
	require.NoError(t, err)
	return added[0]
}

func TestNewReindexer(t *testing.T) {
	t.Run("nil repository", func(t *testing.T) {
		_, err := NewReindexer(nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		repo := setupTestRepository(t)

		reindexer, err := NewReindexer(repo, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 100, reindexer.config.BatchSize)
		assert.Equal(t, 3, reindexer.config.MaxRetries)
		assert.Equal(t, time.Second, reindexer.config.RetryDelay)
	})
}

func TestReindexer_Run(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()

	first := writeScan(t, dir, "scan_101.yaml", "first scan")
	second := writeScan(t, dir, "scan_102.yaml", "second scan")
	gone := filepath.Join(dir, "scan_103.yaml")
	broken := writeBrokenScan(t, dir, "scan_104.yaml")

	for _, path := range []string{first, second, gone, broken} {
		addStaleRecord(t, repo, path)
	}

	var buf bytes.Buffer
	config := &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer, err := NewReindexer(repo, nil, config, &buf)
	require.NoError(t, err)

	result, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 2, Pruned: 1, Failed: 1}, result)

	record, err := repo.GetRecordByPath(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "first scan", record.Metadata["title"])
	assert.Equal(t, "energy", record.Metadata["axes"])

	record, err = repo.GetRecordByPath(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "second scan", record.Metadata["title"])

	_, err = repo.GetRecordByPath(context.Background(), gone)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	record, err = repo.GetRecordByPath(context.Background(), broken)
	require.NoError(t, err)
	assert.Equal(t, "stale", record.Metadata["title"])

	output := buf.String()
	assert.Contains(t, output, "Starting reindex of 4 records")
	assert.Contains(t, output, "Reindex complete. Updated 2, pruned 1, failed 1")
}

func TestReindexer_EmptyCatalog(t *testing.T) {
	repo := setupTestRepository(t)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(repo, nil, nil, &buf)
	require.NoError(t, err)

	result, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Contains(t, buf.String(), "Catalog is empty")
}

func TestReindexer_CustomFields(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()
	path := writeScan(t, dir, "scan_201.yaml", "custom fields")
	addStaleRecord(t, repo, path)

	fields := []render.Field{
		{Key: "scan_command", Tokens: []string{nexus.ClassEntry, "scan_command"}},
		{Key: "operator", Default: "unknown"},
	}

	reindexer, err := NewReindexer(repo, fields, nil, nil)
	require.NoError(t, err)

	result, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, result)

	record, err := repo.GetRecordByPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "scan energy 7.0 7.2 0.02", record.Metadata["scan_command"])
	assert.Equal(t, "unknown", record.Metadata["operator"])
	assert.NotContains(t, record.Metadata, "title", "replaced field sets drop the defaults")
}

func TestReindexer_ContextCanceled(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()
	for i := range 5 {
		addStaleRecord(t, repo, writeScan(t, dir, fmt.Sprintf("scan_%d.yaml", 300+i), "scan"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer, err := NewReindexer(repo, nil, config, nil)
	require.NoError(t, err)

	_, err = reindexer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
