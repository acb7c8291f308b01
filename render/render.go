// Package render turns tree nodes into human-oriented strings: scalar
// values with units, array summaries, and bulk metadata maps. Rendering
// never errors; undecodable values degrade to a best-effort form.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mmg-tools/nxsearch/nexus"
)

// DatasetString renders a dataset value for display.
//
// Numeric arrays summarize as "<dtype> [dims]". Numeric scalars are
// rounded to the precision named by the decimals attribute and suffixed
// with the units attribute, e.g. "3.14 eV". String scalars render
// plainly; string arrays summarize as "['first', ...(N)]".
func DatasetString(d *nexus.Dataset) string {
	if d == nil {
		return ""
	}
	if d.IsNumeric() {
		return numericString(d)
	}
	return stringString(d)
}

func numericString(d *nexus.Dataset) string {
	if d.Size() > 1 {
		return fmt.Sprintf("%s %v", d.Dtype(), d.Shape())
	}
	nums := d.Floats()
	if len(nums) == 0 {
		return ""
	}
	value := nums[0]
	if decimals, ok := d.Attrs().Get(nexus.AttrDecimals).Int(); ok {
		value = roundTo(value, decimals)
	}
	text := strconv.FormatFloat(value, 'g', -1, 64)
	if units := d.Attrs().Text(nexus.AttrUnits); units != "" {
		return text + " " + units
	}
	return text
}

func stringString(d *nexus.Dataset) string {
	strs := d.Strings()
	if len(strs) == 0 {
		return ""
	}
	if d.Ndim() == 0 {
		return strs[0]
	}
	return fmt.Sprintf("['%s', ...(%d)]", strs[0], len(strs))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Value renders any node: datasets through DatasetString, groups as
// their name. A nil node renders as "".
func Value(n nexus.Node) string {
	switch x := n.(type) {
	case *nexus.Dataset:
		return DatasetString(x)
	case *nexus.Group:
		return x.Name()
	default:
		return ""
	}
}

// ShapeString renders a dataset shape for display, e.g. "(10, 20)".
// Scalars render as "()".
func ShapeString(d *nexus.Dataset) string {
	if d == nil {
		return "()"
	}
	shape := d.Shape()
	out := "("
	for i, dim := range shape {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(dim)
	}
	return out + ")"
}
