package badger

import (
	"bytes"
	"context"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmg-tools/nxsearch/catalog"
)

// RecordRepository implements catalog.Repository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ catalog.Repository = (*RecordRepository)(nil)

// NewRecordRepository creates a record repository on top of backend.
func NewRecordRepository(backend *Backend) (catalog.Repository, error) {
	return &RecordRepository{
		backend: backend,
	}, nil
}

// Close releases resources. RecordRepository has no resources of its own.
func (r *RecordRepository) Close() error {
	return nil
}

// FindByMetadata delegates to the backend.
func (r *RecordRepository) FindByMetadata(ctx context.Context, query string, limit int) ([]*catalog.Record, error) {
	return r.backend.FindByMetadata(ctx, query, limit)
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords adds one or more records to the catalog.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*catalog.Record) ([]*catalog.Record, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Derive the ID from the path unless the caller set one
			if record.Id == 0 {
				record.Id = catalog.IDFromPath(record.Path)
			}

			// Reject a path already owned by a different record
			owner, err := r.readPathIndex(tx, record.Path)
			if err != nil {
				return err
			}
			if owner != 0 && owner != record.Id {
				return catalog.ErrDuplicatePath
			}

			record.IngestedAt = time.Now().UTC()
			record.UpdatedAt = record.IngestedAt

			// Store primary record
			key := makeRecordKey(record.Id)
			value := catalog.MarshalRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update scan number index
			scanKey := makeScanKey(record.ScanNumber, record.Id)
			if err := tx.Set(scanKey, catalog.MarshalID(record.Id)); err != nil {
				return err
			}

			// Update path index
			pathKey := makePathKey(record.Path)
			if err := tx.Set(pathKey, catalog.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateRecords updates existing records.
func (r *RecordRepository) UpdateRecords(ctx context.Context, records ...*catalog.Record) ([]*catalog.Record, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeRecordKey(record.Id)

			// Read old record to detect changes
			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return catalog.ErrNotFound
			}

			// Update timestamp, keep the original ingest time
			record.UpdatedAt = time.Now().UTC()
			if record.IngestedAt.IsZero() {
				record.IngestedAt = old.IngestedAt
			}

			// Store updated record
			value := catalog.MarshalRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update scan index if the scan number changed
			if old.ScanNumber != record.ScanNumber {
				oldScanKey := makeScanKey(old.ScanNumber, old.Id)
				if err := tx.Delete(oldScanKey); err != nil {
					return err
				}
				newScanKey := makeScanKey(record.ScanNumber, record.Id)
				if err := tx.Set(newScanKey, catalog.MarshalID(record.Id)); err != nil {
					return err
				}
			}

			// Update path index if the path changed
			if old.Path != record.Path {
				owner, err := r.readPathIndex(tx, record.Path)
				if err != nil {
					return err
				}
				if owner != 0 && owner != record.Id {
					return catalog.ErrDuplicatePath
				}
				if err := tx.Delete(makePathKey(old.Path)); err != nil {
					return err
				}
				if err := tx.Set(makePathKey(record.Path), catalog.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteRecords removes records by their IDs.
func (r *RecordRepository) DeleteRecords(ctx context.Context, ids ...catalog.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)

			// Read record to get index entries for cleanup
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return catalog.ErrNotFound
			}

			// Delete from scan number index
			scanKey := makeScanKey(record.ScanNumber, record.Id)
			if err := tx.Delete(scanKey); err != nil {
				return err
			}

			// Delete from path index
			if err := tx.Delete(makePathKey(record.Path)); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id catalog.ID) (*catalog.Record, error) {
	var result *catalog.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(id)
		var err error
		result, err = r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return catalog.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecords retrieves multiple records by their IDs.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...catalog.ID) ([]*catalog.Record, error) {
	var result []*catalog.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecordByPath retrieves the record for a file path.
func (r *RecordRepository) GetRecordByPath(ctx context.Context, path string) (*catalog.Record, error) {
	var result *catalog.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := r.readPathIndex(tx, path)
		if err != nil {
			return err
		}
		if id == 0 {
			return catalog.ErrNotFound
		}
		result, err = r.readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return catalog.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByScanRange retrieves records within a scan number range.
func (r *RecordRepository) GetRecordsByScanRange(ctx context.Context, first, last int64) ([]*catalog.Record, error) {
	if first > last {
		return nil, catalog.ErrInvalidQuery
	}

	var results []*catalog.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialScanKey(first)
		prefix := []byte(recordScanPrefix + ":")
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			if scanFromKey(key) > last {
				break
			}

			// Read the ID from the index
			var recordID catalog.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = catalog.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetLastScan retrieves the record with the highest scan number.
func (r *RecordRepository) GetLastScan(ctx context.Context) (*catalog.Record, error) {
	var result *catalog.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use a reverse iterator to land on the highest scan index key
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makeScanKey(math.MaxInt64, catalog.ID(math.MaxUint64))
		prefix := []byte(recordScanPrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				// Reverse iteration can land just before the index space
				continue
			}

			var recordID catalog.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = catalog.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			var err error
			result, err = r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if result != nil {
				return nil
			}
		}
		return catalog.ErrNotFound
	}, false)

	return result, err
}

// CountRecords returns the number of records in the catalog.
func (r *RecordRepository) CountRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if bytes.HasPrefix(key, []byte(recordScanPrefix)) ||
				bytes.HasPrefix(key, []byte(recordPathPrefix)) {
				continue
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEach calls fn for every record in the catalog, in key order.
func (r *RecordRepository) ForEach(ctx context.Context, fn func(*catalog.Record) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if bytes.HasPrefix(item.Key(), []byte(recordScanPrefix)) ||
				bytes.HasPrefix(item.Key(), []byte(recordPathPrefix)) {
				continue
			}

			var record *catalog.Record
			if err := item.Value(func(val []byte) error {
				var err error
				record, err = catalog.UnmarshalRecord(val)
				return err
			}); err != nil {
				return err
			}
			if record == nil {
				continue
			}

			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Helper methods

// readRecord reads a record from the transaction.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*catalog.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *catalog.Record
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = catalog.UnmarshalRecord(val)
		return unmarshalErr
	})
	return record, err
}

// readPathIndex resolves a path to the ID that owns it, 0 when unclaimed.
func (r *RecordRepository) readPathIndex(tx *badger.Txn, path string) (catalog.ID, error) {
	item, err := tx.Get(makePathKey(path))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var id catalog.ID
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		id, unmarshalErr = catalog.UnmarshalID(val)
		return unmarshalErr
	})
	return id, err
}
