package reindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/codec"
	"github.com/mmg-tools/nxsearch/ingest"
)

// Result tallies the outcome of processed batches.
type Result struct {
	// Updated counts records whose metadata was re-extracted and stored.
	Updated int

	// Pruned counts records removed because their scan file is gone.
	Pruned int

	// Failed counts records whose scan file could not be read or decoded.
	// Failed records keep their previous metadata.
	Failed int
}

// Add accumulates another result into r.
func (r *Result) Add(other Result) {
	r.Updated += other.Updated
	r.Pruned += other.Pruned
	r.Failed += other.Failed
}

// BatchProcessor re-extracts metadata for batches of catalog records.
// Records whose scan files have vanished are pruned from the catalog.
type BatchProcessor struct {
	repo       catalog.Repository
	extractor  *ingest.Extractor
	maxRetries int
	retryDelay time.Duration
}

// NewBatchProcessor creates a processor that writes through repo using
// extractor to rebuild record metadata.
func NewBatchProcessor(repo catalog.Repository, extractor *ingest.Extractor, maxRetries int, retryDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:       repo,
		extractor:  extractor,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Process re-reads the scan file behind every record in the batch and writes
// the refreshed records back. Storage writes are retried with exponential
// backoff. Extraction is not retried: a file that fails to decode will fail
// the same way again, so it is counted and skipped instead.
func (bp *BatchProcessor) Process(ctx context.Context, records []*catalog.Record) (Result, error) {
	var result Result
	if len(records) == 0 {
		return result, nil
	}

	updates := make([]*catalog.Record, 0, len(records))
	var pruned []catalog.ID

	for _, record := range records {
		refreshed, err := bp.refresh(record)
		switch {
		case err == nil:
			updates = append(updates, refreshed)
		case errors.Is(err, fs.ErrNotExist):
			pruned = append(pruned, record.Id)
		default:
			result.Failed++
		}
	}

	if len(updates) > 0 {
		err := RetryWithBackoff(ctx, func() error {
			_, err := bp.repo.UpdateRecords(ctx, updates...)
			return err
		}, bp.maxRetries, bp.retryDelay)
		if err != nil {
			return result, fmt.Errorf("failed to update %d records: %w", len(updates), err)
		}
		result.Updated = len(updates)
	}

	if len(pruned) > 0 {
		err := RetryWithBackoff(ctx, func() error {
			return bp.repo.DeleteRecords(ctx, pruned...)
		}, bp.maxRetries, bp.retryDelay)
		if err != nil {
			return result, fmt.Errorf("failed to prune %d records: %w", len(pruned), err)
		}
		result.Pruned = len(pruned)
	}

	return result, nil
}

// refresh rebuilds one record from its scan file on disk. The record
// identity and ingestion time are preserved.
func (bp *BatchProcessor) refresh(record *catalog.Record) (*catalog.Record, error) {
	info, err := os.Stat(record.Path)
	if err != nil {
		return nil, err
	}

	root, err := codec.DecodeFile(record.Path)
	if err != nil {
		return nil, err
	}

	return &catalog.Record{
		Id:          record.Id,
		Path:        record.Path,
		ScanNumber:  catalog.ScanNumberFromPath(record.Path),
		Metadata:    bp.extractor.Extract(record.Path, root),
		IngestedAt:  record.IngestedAt,
		FileModTime: info.ModTime().UTC(),
	}, nil
}
