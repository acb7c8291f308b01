package catalog

import (
	"encoding/binary"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog records.
// It is derived from the record's file path, so the same file always
// maps to the same ID across ingest runs.
type ID uint64

// IDFromPath generates a deterministic ID from a file path using BLAKE2b
// hashing. The path is cleaned first so equivalent spellings of the same
// path produce identical IDs.
func IDFromPath(path string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(filepath.Clean(path)))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// scanNumberPattern captures the last run of digits in a file name.
var scanNumberPattern = regexp.MustCompile(`(\d+)\D*$`)

// ScanNumberFromPath extracts the scan number from a file name, taken as
// the last run of digits in the base name ("i16-00321.nxs.yaml" -> 321).
// Returns 0 when the name carries no number.
func ScanNumberFromPath(path string) int64 {
	m := scanNumberPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Record is the searchable footprint of one ingested scan file.
type Record struct {
	Id          ID
	Path        string
	ScanNumber  int64
	Metadata    map[string]string // Extracted metadata, keyed by field name
	IngestedAt  time.Time         // When the record was first written to the catalog
	UpdatedAt   time.Time         // When the record was last updated
	FileModTime time.Time         // Modification time of the source file at ingest
}

// SearchText returns the text that metadata queries match against: the
// file path followed by every metadata value, one per line.
func (r *Record) SearchText() string {
	parts := make([]string, 0, len(r.Metadata)+1)
	parts = append(parts, r.Path)
	for _, key := range slices.Sorted(maps.Keys(r.Metadata)) {
		parts = append(parts, r.Metadata[key])
	}
	return strings.Join(parts, "\n")
}
