// Copyright 2025 MMG Tools
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/ingest"
	"github.com/mmg-tools/nxsearch/render"
)

// Config holds configuration for a reindexing run.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed storage writes
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates re-extraction of metadata for every record in the
// catalog. It is used after the extraction field set changes, or to prune
// records whose scan files were deleted from disk.
type Reindexer struct {
	repo      catalog.Repository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *RecordIterator
}

// NewReindexer creates a reindexer that rebuilds record metadata according
// to fields. Nil fields select ingest.DefaultFields, nil config selects
// DefaultConfig.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo catalog.Repository, fields []render.Field, config *Config, progress io.Writer) (*Reindexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	extractor := ingest.NewExtractor(fields)
	processor := NewBatchProcessor(repo, extractor, config.MaxRetries, config.RetryDelay)
	iterator := NewRecordIterator(repo, config.BatchSize)

	return &Reindexer{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}, nil
}

// Run executes the reindexing operation. Every record in the catalog has its
// scan file re-read and its metadata rebuilt. Progress is reported to the
// configured writer. The returned Result tallies updated, pruned, and failed
// records across all batches.
func (r *Reindexer) Run(ctx context.Context) (Result, error) {
	var total Result

	count, err := r.repo.CountRecords(ctx)
	if err != nil {
		return total, fmt.Errorf("failed to count records: %w", err)
	}
	if count == 0 {
		fmt.Fprintf(r.progress, "Catalog is empty (0 records)\n")
		return total, nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d records (batch size: %d)\n",
		count, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, count, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(records []*catalog.Record) error {
		result, err := r.processor.Process(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		total.Add(result)
		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return total, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(processed) / secs
	}
	fmt.Fprintf(r.progress, "Reindex complete. Updated %d, pruned %d, failed %d in %v (%.1f records/s)\n",
		total.Updated, total.Pruned, total.Failed, elapsed.Round(time.Millisecond), rate)

	return total, nil
}
