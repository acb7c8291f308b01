// Copyright 2025 MMG Tools
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"path/filepath"

	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/render"
)

// Metadata keys the extractor fills from the file itself rather than from
// token fields.
const (
	FieldFilename = "filename"
	FieldFilepath = "filepath"
	FieldAxes     = "axes"
	FieldSignal   = "signal"
	FieldShape    = "shape"
)

// DefaultFields returns the token fields extracted when the caller does
// not configure a set of its own. Fields that resolve nothing leave an
// empty value under their key.
func DefaultFields() []render.Field {
	return []render.Field{
		{Key: "start_time", Tokens: []string{nexus.ClassEntry, "start_time"}},
		{Key: "end_time", Tokens: []string{nexus.ClassEntry, "end_time"}},
		{Key: "scan_command", Tokens: []string{nexus.ClassEntry, "scan_command"}},
		{Key: "title", Tokens: []string{nexus.ClassEntry, "title"}},
		{Key: "definition", Tokens: []string{nexus.ClassEntry, nexus.DatasetDefinition}},
		{Key: "beamline", Tokens: []string{nexus.ClassEntry, nexus.ClassInstrument, "name"}},
	}
}

// Extractor reduces a decoded tree to the flat metadata map stored on a
// catalog record.
type Extractor struct {
	fields []render.Field
}

// NewExtractor creates an extractor for the given token fields.
// A nil or empty field list falls back to DefaultFields.
func NewExtractor(fields []render.Field) *Extractor {
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	return &Extractor{fields: fields}
}

// Extract resolves every configured field against the tree and adds the
// file-level and plot-level entries. The returned map always holds one
// value per configured key.
func (e *Extractor) Extract(path string, root *nexus.Group) map[string]string {
	values := render.Metadata(root, e.fields)
	values[FieldFilename] = filepath.Base(path)
	values[FieldFilepath] = path

	axes, signal, shape := plotInfo(root)
	values[FieldAxes] = axes
	values[FieldSignal] = signal
	values[FieldShape] = shape
	return values
}

// plotInfo summarizes the plottable group of the tree: the first axis
// name, the signal name, and the signal's shape.
func plotInfo(root *nexus.Group) (axes, signal, shape string) {
	data := defaultData(root)
	if data == nil {
		return "", "", ""
	}

	attrs := data.Attrs()
	axes = attrs.Text(nexus.AttrAxes)
	signal = attrs.Text(nexus.AttrSignal)
	if signal == "" {
		return axes, signal, shape
	}
	if child, ok := data.Child(signal); ok {
		if ds, ok := child.(*nexus.Dataset); ok {
			shape = render.ShapeString(ds)
		}
	}
	return axes, signal, shape
}

// defaultData resolves the plottable data group the way viewers do:
// follow the @default chain from the root, then fall back to the first
// NXdata group below the first entry.
func defaultData(root *nexus.Group) *nexus.Group {
	entry := entryOf(root)
	if entry == nil {
		return nil
	}

	if name := entry.Attrs().Text(nexus.AttrDefault); name != "" {
		if child, ok := entry.Child(name); ok {
			if g, ok := child.(*nexus.Group); ok {
				return g
			}
		}
	}
	return firstOfClass(entry, nexus.ClassData)
}

// entryOf picks the entry group the @default attribute points at, or the
// first NXentry child when the root carries no usable @default.
func entryOf(root *nexus.Group) *nexus.Group {
	if root == nil {
		return nil
	}
	if nexus.IsEntry(root) {
		return root
	}
	if name := root.Attrs().Text(nexus.AttrDefault); name != "" {
		if child, ok := root.Child(name); ok {
			if g, ok := child.(*nexus.Group); ok && nexus.IsEntry(g) {
				return g
			}
		}
	}
	return firstOfClass(root, nexus.ClassEntry)
}

// firstOfClass returns the first child group carrying the class, nil when
// there is none.
func firstOfClass(g *nexus.Group, class string) *nexus.Group {
	for _, child := range g.Groups() {
		if child.Attrs().Text(nexus.AttrClass) == class {
			return child
		}
	}
	return nil
}
