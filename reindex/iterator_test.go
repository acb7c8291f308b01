package reindex

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/catalog/badger"
)

func setupTestRepository(t *testing.T) catalog.Repository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func seedRecords(t *testing.T, repo catalog.Repository, n int) {
	t.Helper()
	records := make([]*catalog.Record, n)
	for i := range n {
		records[i] = &catalog.Record{
			Path:       fmt.Sprintf("/data/visit/scan_%d.yaml", i+1),
			ScanNumber: int64(i + 1),
		}
	}
	_, err := repo.AddRecords(context.Background(), records...)
	require.NoError(t, err)
}

func TestRecordIterator_Batching(t *testing.T) {
	repo := setupTestRepository(t)
	seedRecords(t, repo, 25)

	iterator := NewRecordIterator(repo, 10)

	var sizes []int
	seen := make(map[string]bool)
	err := iterator.ForEach(context.Background(), func(records []*catalog.Record) error {
		sizes = append(sizes, len(records))
		for _, record := range records {
			seen[record.Path] = true
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 10, 5}, sizes, "the remainder forms the final batch")
	assert.Len(t, seen, 25, "every record should be visited exactly once")
}

func TestRecordIterator_SingleBatch(t *testing.T) {
	repo := setupTestRepository(t)
	seedRecords(t, repo, 3)

	iterator := NewRecordIterator(repo, 10)

	calls := 0
	err := iterator.ForEach(context.Background(), func(records []*catalog.Record) error {
		calls++
		assert.Len(t, records, 3)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRecordIterator_Empty(t *testing.T) {
	repo := setupTestRepository(t)

	iterator := NewRecordIterator(repo, 10)

	calls := 0
	err := iterator.ForEach(context.Background(), func(records []*catalog.Record) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "an empty catalog produces no batches")
}

func TestRecordIterator_CallbackError(t *testing.T) {
	repo := setupTestRepository(t)
	seedRecords(t, repo, 5)

	iterator := NewRecordIterator(repo, 2)
	boom := errors.New("boom")

	calls := 0
	err := iterator.ForEach(context.Background(), func(records []*catalog.Record) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "iteration stops at the first callback error")
}

func TestRecordIterator_ContextCanceled(t *testing.T) {
	repo := setupTestRepository(t)
	seedRecords(t, repo, 25)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iterator := NewRecordIterator(repo, 10)

	calls := 0
	err := iterator.ForEach(ctx, func(records []*catalog.Record) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestNewRecordIterator_BatchSizeFallback(t *testing.T) {
	repo := setupTestRepository(t)

	for _, batchSize := range []int{0, -5} {
		iterator := NewRecordIterator(repo, batchSize)
		assert.Equal(t, DefaultBatchSize, iterator.batchSize)
	}
}
