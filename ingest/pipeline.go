package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/codec"
	"github.com/mmg-tools/nxsearch/render"
)

// Stats counts the outcomes of a pipeline run.
type Stats struct {
	Ingested int64 // New records added
	Updated  int64 // Existing records refreshed
	Skipped  int64 // Files unchanged since their last ingest
	Failed   int64 // Files that could not be processed
}

// Pipeline orchestrates the ingest of scan files into the catalog.
// It decodes and extracts files concurrently on a worker pool.
type Pipeline struct {
	repository catalog.Repository
	extractor  *Extractor
	pool       *ants.Pool
	wg         sync.WaitGroup
	logger     *slog.Logger

	ingested atomic.Int64
	updated  atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release the old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithFields sets the token fields extracted from each file.
// Default is DefaultFields().
func WithFields(fields []render.Field) Option {
	return func(p *Pipeline) error {
		p.extractor = NewExtractor(fields)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingest pipeline.
func NewPipeline(repository catalog.Repository, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		repository: repository,
		extractor:  NewExtractor(nil),
		pool:       pool,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestFile decodes one file and upserts its record synchronously.
// Files whose modification time matches the existing record are skipped.
func (p *Pipeline) IngestFile(ctx context.Context, path string) error {
	if !codec.Recognized(path) {
		return fmt.Errorf("%w: %s", ErrUnrecognizedFile, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	modTime := info.ModTime().UTC()

	existing, err := p.repository.GetRecordByPath(ctx, path)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	if existing != nil && existing.FileModTime.Equal(modTime) {
		p.skipped.Add(1)
		p.logger.Debug("file unchanged, skipping", "path", path)
		return nil
	}

	root, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}

	record := &catalog.Record{
		Path:        path,
		ScanNumber:  catalog.ScanNumberFromPath(path),
		Metadata:    p.extractor.Extract(path, root),
		FileModTime: modTime,
	}
	if err := catalog.ValidateRecord(record); err != nil {
		return err
	}

	if existing != nil {
		record.Id = existing.Id
		if _, err := p.repository.UpdateRecords(ctx, record); err != nil {
			return err
		}
		p.updated.Add(1)
		p.logger.Debug("record updated", "path", path, "scan", record.ScanNumber)
		return nil
	}

	if _, err := p.repository.AddRecords(ctx, record); err != nil {
		return err
	}
	p.ingested.Add(1)
	p.logger.Debug("record ingested", "path", path, "scan", record.ScanNumber)
	return nil
}

// Ingest submits files for asynchronous processing.
// Errors on individual files are logged and counted but do not fail the
// batch; call Wait to block until every submitted file is done.
func (p *Pipeline) Ingest(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		p.wg.Add(1)
		err := p.pool.Submit(func() {
			defer p.wg.Done()
			if err := p.IngestFile(ctx, path); err != nil {
				p.failed.Add(1)
				p.logger.Error("error ingesting file", "path", path, "err", err)
			}
		})
		if err != nil {
			p.wg.Done()
			return err
		}
	}
	return nil
}

// Walk ingests every recognized file under dir.
func (p *Pipeline) Walk(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !codec.Recognized(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("walking scan directory", "dir", dir, "files", len(paths))
	return p.Ingest(ctx, paths...)
}

// Wait blocks until all submitted files have been processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Stats returns the counters accumulated so far.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Ingested: p.ingested.Load(),
		Updated:  p.updated.Load(),
		Skipped:  p.skipped.Load(),
		Failed:   p.failed.Load(),
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
