package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/mmg-tools/nxsearch/catalog"
)

// Key prefixes for different data types
const (
	recordPrefix     = "scnrec"
	recordScanPrefix = "scnrecn"
	recordPathPrefix = "scnrecp"
)

// makeRecordKey generates a key for a record by ID.
func makeRecordKey(id catalog.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makeScanKey generates a composite key for the scan number index.
// Format: prefix:scanNumber:id
func makeScanKey(scanNumber int64, id catalog.ID) []byte {
	prefix := recordScanPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for scan number + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(scanNumber))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialScanKey generates a partial key for scan range queries.
// Format: prefix:scanNumber
func makePartialScanKey(scanNumber int64) []byte {
	prefix := recordScanPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for scan number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(scanNumber))
	return buf
}

// scanFromKey reads the scan number back out of a scan index key.
func scanFromKey(key []byte) int64 {
	offset := len(recordScanPrefix) + 1
	return int64(binary.BigEndian.Uint64(key[offset : offset+8]))
}

// makePathKey generates a key for the path index.
// Format: prefix:path
func makePathKey(path string) []byte {
	prefix := recordPathPrefix + ":"
	totalSize := len(prefix) + len(path)
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	copy(buf[offset:], []byte(path))
	return buf
}
