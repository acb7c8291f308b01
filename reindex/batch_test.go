package reindex

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/ingest"
)

func newTestProcessor(repo catalog.Repository) *BatchProcessor {
	return NewBatchProcessor(repo, ingest.NewExtractor(nil), 2, time.Millisecond)
}

func TestBatchProcessor_Empty(t *testing.T) {
	repo := setupTestRepository(t)
	processor := newTestProcessor(repo)

	result, err := processor.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestBatchProcessor_RefreshesMetadata(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()
	path := writeScan(t, dir, "scan_11.yaml", "fresh title")

	added, err := repo.AddRecords(context.Background(), &catalog.Record{
		Path:       path,
		ScanNumber: 11,
		Metadata:   map[string]string{"title": "stale"},
	})
	require.NoError(t, err)

	processor := newTestProcessor(repo)
	result, err := processor.Process(context.Background(), added)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, result)

	record, err := repo.GetRecord(context.Background(), added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "fresh title", record.Metadata["title"])
	assert.Equal(t, "scan energy 7.0 7.2 0.02", record.Metadata["scan_command"])
	assert.False(t, record.FileModTime.IsZero(), "file modification time should be recorded")
	assert.Equal(t, added[0].IngestedAt, record.IngestedAt, "ingestion time is preserved")
}

func TestBatchProcessor_PrunesMissingFiles(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()

	added, err := repo.AddRecords(context.Background(), &catalog.Record{
		Path:       filepath.Join(dir, "scan_12.yaml"),
		ScanNumber: 12,
	})
	require.NoError(t, err)

	processor := newTestProcessor(repo)
	result, err := processor.Process(context.Background(), added)
	require.NoError(t, err)
	assert.Equal(t, Result{Pruned: 1}, result)

	_, err = repo.GetRecord(context.Background(), added[0].Id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestBatchProcessor_CountsDecodeFailures(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()
	path := writeBrokenScan(t, dir, "scan_13.yaml")

	added, err := repo.AddRecords(context.Background(), &catalog.Record{
		Path:       path,
		ScanNumber: 13,
		Metadata:   map[string]string{"title": "stale"},
	})
	require.NoError(t, err)

	processor := newTestProcessor(repo)
	result, err := processor.Process(context.Background(), added)
	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 1}, result)

	record, err := repo.GetRecord(context.Background(), added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "stale", record.Metadata["title"], "failed records keep their previous metadata")
}

func TestBatchProcessor_MixedBatch(t *testing.T) {
	repo := setupTestRepository(t)
	dir := t.TempDir()

	good := writeScan(t, dir, "scan_21.yaml", "kept")
	broken := writeBrokenScan(t, dir, "scan_22.yaml")
	missing := filepath.Join(dir, "scan_23.yaml")

	var batch []*catalog.Record
	for _, path := range []string{good, broken, missing} {
		added, err := repo.AddRecords(context.Background(), &catalog.Record{
			Path:       path,
			ScanNumber: catalog.ScanNumberFromPath(path),
		})
		require.NoError(t, err)
		batch = append(batch, added...)
	}

	processor := newTestProcessor(repo)
	result, err := processor.Process(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1, Pruned: 1, Failed: 1}, result)

	count, err := repo.CountRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
