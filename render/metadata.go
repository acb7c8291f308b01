package render

import (
	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/search"
)

// Field names one metadata entry to extract from a tree: a key, the
// search tokens locating it, and the value reported when the search
// matches nothing.
type Field struct {
	Key     string
	Tokens  []string
	Default string
}

// Metadata extracts one rendered string per field from the tree. Found
// datasets render through DatasetString, found groups as their name, and
// misses report the field default. The result always has exactly one
// entry per field key; extraction never errors.
func Metadata(root *nexus.Group, fields []Field) map[string]string {
	metadata := make(map[string]string, len(fields))
	for _, field := range fields {
		metadata[field.Key] = fieldValue(root, field)
	}
	return metadata
}

func fieldValue(root *nexus.Group, field Field) string {
	if root == nil || len(field.Tokens) == 0 {
		return field.Default
	}
	found, err := search.Find(root, field.Tokens...)
	if err != nil || found == nil {
		return field.Default
	}
	return Value(found)
}
