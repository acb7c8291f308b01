// Package codec reads and writes self-describing tree dumps.
//
// A dump is one YAML or JSON document per scan file. A mapping without an
// "@value" key is a group: its "@attrs" mapping holds attributes and every
// other key is a child, in document order. A mapping with "@value" is a
// dataset with optional "@dtype", "@shape", and "@attrs". Plain scalars
// and arrays are shorthand datasets:
//
//	entry:
//	  "@attrs": {NX_class: NXentry, default: measurement}
//	  scan_command: scan eta 0 1 0.1
//	  measurement:
//	    "@attrs": {NX_class: NXdata, axes: energy, signal: intensity}
//	    energy: {"@value": [1, 2, 3], "@dtype": float64, "@attrs": {units: eV}}
//	    intensity: [9, 8, 7]
//
// Keys beginning with "@" are reserved. Decoding preserves document order,
// which the search traversal depends on, and favors degradation over
// strict validation: mismatched shapes adopt the value count and
// mixed-type arrays decode as strings.
package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmg-tools/nxsearch/nexus"
)

// Extensions recognized as tree dumps.
var dumpExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Recognized reports whether the path names a tree dump this package can
// decode, by extension.
func Recognized(path string) bool {
	return dumpExtensions[strings.ToLower(filepath.Ext(path))]
}

// DecodeFile reads and decodes a tree dump. The returned root group is
// named after the file stem.
func DecodeFile(path string) (*nexus.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root, err := DecodeGroup(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return root.Rename(Stem(path)), nil
}

// EncodeFile writes a tree dump for the group.
func EncodeFile(path string, g *nexus.Group) error {
	data, err := EncodeGroup(g)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
