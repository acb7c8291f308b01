// Package reindex refreshes the metadata of existing catalog records by
// re-reading their scan files and re-running field extraction.
//
// This package supports batch processing of catalog records, progress
// tracking, retry logic with exponential backoff, and pruning of records
// whose scan files no longer exist on disk.
package reindex
