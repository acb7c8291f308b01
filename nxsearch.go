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


// Package nxsearch searches self-describing scan files and maintains a
// persistent catalog of their metadata.
//
// The packages under this module can be used directly; Toolbox bundles the
// common wiring (storage backend, record repository, ingest pipeline) behind
// a single handle for tools that want the whole stack.
package nxsearch

import (
	"context"
	"io"
	"log/slog"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/catalog/badger"
	"github.com/mmg-tools/nxsearch/codec"
	"github.com/mmg-tools/nxsearch/ingest"
	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/reindex"
	"github.com/mmg-tools/nxsearch/render"
)

// Toolbox owns a storage backend, the record repository on top of it, and an
// ingest pipeline. Close releases all three.
type Toolbox struct {
	backend  *badger.Backend
	records  catalog.Repository
	pipeline *ingest.Pipeline
	fields   []render.Field
	logger   *slog.Logger
}

// ToolboxOption configures a Toolbox.
type ToolboxOption func(*toolboxOptions)

type toolboxOptions struct {
	fields   []render.Field
	logger   *slog.Logger
	poolSize int
}

// WithFields replaces the default metadata field set used by ingestion and
// reindexing.
func WithFields(fields []render.Field) ToolboxOption {
	return func(o *toolboxOptions) {
		o.fields = fields
	}
}

// WithLogger sets the logger handed to the pipeline and used for cleanup
// reporting.
func WithLogger(logger *slog.Logger) ToolboxOption {
	return func(o *toolboxOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets the concurrency of the ingest pipeline.
func WithPoolSize(size int) ToolboxOption {
	return func(o *toolboxOptions) {
		o.poolSize = size
	}
}

// Open opens or creates a catalog at filePath.
func Open(filePath string, opts ...ToolboxOption) (*Toolbox, error) {
	return open(filePath, false, opts)
}

// OpenInMemory creates a toolbox over an in-memory catalog that is lost on
// Close. Used by tests and one-shot queries.
func OpenInMemory(opts ...ToolboxOption) (*Toolbox, error) {
	return open("", true, opts)
}

func open(filePath string, inMemory bool, opts []ToolboxOption) (*Toolbox, error) {
	options := &toolboxOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	records, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pipelineOpts := []ingest.Option{ingest.WithLogger(options.logger)}
	if options.fields != nil {
		pipelineOpts = append(pipelineOpts, ingest.WithFields(options.fields))
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(options.poolSize))
	}

	pipeline, err := ingest.NewPipeline(records, pipelineOpts...)
	if err != nil {
		records.Close()
		backend.Close()
		return nil, err
	}

	return &Toolbox{
		backend:  backend,
		records:  records,
		pipeline: pipeline,
		fields:   options.fields,
		logger:   options.logger,
	}, nil
}

// Close releases the pipeline, the repository, and the backend.
func (tb *Toolbox) Close() error {
	tb.pipeline.Release()

	if err := tb.records.Close(); err != nil {
		tb.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := tb.backend.Close(); err != nil {
		tb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Records exposes the record repository for direct catalog access.
func (tb *Toolbox) Records() catalog.Repository {
	return tb.records
}

// Pipeline exposes the ingest pipeline, for callers that want to enqueue
// files asynchronously rather than through Ingest.
func (tb *Toolbox) Pipeline() *ingest.Pipeline {
	return tb.pipeline
}

// Ingest walks root, which may be a single scan file or a directory tree,
// ingests every recognized file, and waits for completion. The returned
// stats are cumulative over the lifetime of the toolbox.
func (tb *Toolbox) Ingest(ctx context.Context, root string) (ingest.Stats, error) {
	err := tb.pipeline.Walk(ctx, root)
	tb.pipeline.Wait()
	return tb.pipeline.Stats(), err
}

// Query searches record metadata for entries matching all words of query.
// A limit of 0 or less returns all matches, newest scans first.
func (tb *Toolbox) Query(ctx context.Context, query string, limit int) ([]*catalog.Record, error) {
	return tb.records.FindByMetadata(ctx, query, limit)
}

// LastScan returns the record with the highest scan number.
func (tb *Toolbox) LastScan(ctx context.Context) (*catalog.Record, error) {
	return tb.records.GetLastScan(ctx)
}

// Reindex re-extracts metadata for every cataloged record using the
// toolbox's field set, pruning records whose files are gone. Progress is
// written to progress, which may be nil.
func (tb *Toolbox) Reindex(ctx context.Context, progress io.Writer) (reindex.Result, error) {
	reindexer, err := reindex.NewReindexer(tb.records, tb.fields, nil, progress)
	if err != nil {
		return reindex.Result{}, err
	}
	return reindexer.Run(ctx)
}

// LoadTree decodes the scan file at path into its group tree.
func LoadTree(path string) (*nexus.Group, error) {
	return codec.DecodeFile(path)
}
