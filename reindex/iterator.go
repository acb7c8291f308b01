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

	"github.com/mmg-tools/nxsearch/catalog"
)

// DefaultBatchSize is the number of records handed to the batch callback
// when no explicit batch size is configured.
const DefaultBatchSize = 100

// RecordIterator walks all catalog records in key order and hands them to a
// callback in fixed-size batches. Records are streamed from the repository,
// so the full catalog is never held in memory at once.
type RecordIterator struct {
	repo      catalog.Repository
	batchSize int
}

// NewRecordIterator creates an iterator over repo. A batchSize below 1 falls
// back to DefaultBatchSize.
func NewRecordIterator(repo catalog.Repository, batchSize int) *RecordIterator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &RecordIterator{repo: repo, batchSize: batchSize}
}

// ForEach invokes fn with successive batches of records. Iteration stops at
// the first error from fn. The context is checked before every batch so a
// long reindex can be cancelled between units of work.
//
// Updates and deletes performed by fn are not observed by the ongoing
// iteration, which runs against a point-in-time snapshot of the catalog.
func (it *RecordIterator) ForEach(ctx context.Context, fn func(records []*catalog.Record) error) error {
	batch := make([]*catalog.Record, 0, it.batchSize)

	err := it.repo.ForEach(ctx, func(record *catalog.Record) error {
		batch = append(batch, record)
		if len(batch) < it.batchSize {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		full := batch
		batch = make([]*catalog.Record, 0, it.batchSize)
		return fn(full)
	})
	if err != nil {
		return err
	}

	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(batch)
}
