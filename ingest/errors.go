package ingest

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrUnrecognizedFile is returned when a file is not a readable dump format.
	ErrUnrecognizedFile = errors.New("unrecognized file format")
)
