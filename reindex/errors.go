package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when RetryWithBackoff is called with
	// maxAttempts < 1.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be at least 1")

	// ErrRepositoryRequired is returned when a Reindexer is constructed
	// without a catalog repository.
	ErrRepositoryRequired = errors.New("repository is required")
)
