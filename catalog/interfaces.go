package catalog

import "context"

// Repository provides operations for managing catalog records.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// AddRecords adds one or more records to the catalog.
	// For records with ID=0, derives the ID from the record path.
	// Sets IngestedAt and UpdatedAt timestamps.
	// Returns ErrDuplicatePath if another record already owns a path.
	// Returns the records with IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*Record) ([]*Record, error)

	// UpdateRecords updates existing records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateRecords(ctx context.Context, records ...*Record) ([]*Record, error)

	// DeleteRecords removes records by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...ID) error

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id ID) (*Record, error)

	// GetRecords retrieves multiple records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...ID) ([]*Record, error)

	// GetRecordByPath retrieves the record for a file path.
	// Returns ErrNotFound if no record owns the path.
	GetRecordByPath(ctx context.Context, path string) (*Record, error)

	// GetRecordsByScanRange retrieves records within a scan number range.
	// Returns records where first <= ScanNumber <= last, ordered by scan
	// number ascending.
	GetRecordsByScanRange(ctx context.Context, first, last int64) ([]*Record, error)

	// GetLastScan retrieves the record with the highest scan number.
	// Returns ErrNotFound if the catalog is empty.
	GetLastScan(ctx context.Context) (*Record, error)

	// FindByMetadata finds records whose path or metadata values contain
	// every word of the query. Returns up to limit records ordered by scan
	// number descending (most recent first); limit <= 0 means no limit.
	FindByMetadata(ctx context.Context, query string, limit int) ([]*Record, error)

	// CountRecords returns the number of records in the catalog.
	CountRecords(ctx context.Context) (int, error)

	// ForEach calls fn for every record in the catalog, in key order.
	// Iteration stops on the first error from fn.
	ForEach(ctx context.Context, fn func(*Record) error) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
