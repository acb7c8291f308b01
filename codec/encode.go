package codec

import (
	"math"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/mmg-tools/nxsearch/nexus"
)

// EncodeGroup encodes a group as an ordered YAML document. Decoding the
// result reproduces the tree: child order is preserved and datasets that
// would not round-trip through the plain shorthand carry explicit
// "@value", "@dtype", and "@shape" keys.
func EncodeGroup(g *nexus.Group) ([]byte, error) {
	if g == nil {
		return nil, ErrNilGroup
	}
	data, err := yaml.Marshal(encodeGroup(g))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func encodeGroup(g *nexus.Group) yaml.MapSlice {
	var ms yaml.MapSlice
	if attrs := encodeAttrs(g.Attrs()); attrs != nil {
		ms = append(ms, yaml.MapItem{Key: keyAttrs, Value: attrs})
	}
	for _, name := range g.Names() {
		child, _ := g.Child(name)
		switch x := child.(type) {
		case *nexus.Group:
			ms = append(ms, yaml.MapItem{Key: name, Value: encodeGroup(x)})
		case *nexus.Dataset:
			ms = append(ms, yaml.MapItem{Key: name, Value: encodeDataset(x)})
		}
	}
	return ms
}

func encodeDataset(d *nexus.Dataset) any {
	if plain, ok := plainForm(d); ok {
		return plain
	}
	ms := yaml.MapSlice{
		yaml.MapItem{Key: keyValue, Value: encodeValues(d)},
		yaml.MapItem{Key: keyDtype, Value: d.Dtype()},
	}
	if shape := d.Shape(); shape != nil {
		ms = append(ms, yaml.MapItem{Key: keyShape, Value: shape})
	}
	if attrs := encodeAttrs(d.Attrs()); attrs != nil {
		ms = append(ms, yaml.MapItem{Key: keyAttrs, Value: attrs})
	}
	return ms
}

// plainForm returns the shorthand rendering when decoding it would
// rebuild an identical dataset: no attributes, at most one dimension,
// and a dtype the decoder would infer again.
func plainForm(d *nexus.Dataset) (any, bool) {
	if len(d.Attrs()) > 0 || d.Ndim() > 1 {
		return nil, false
	}
	if !d.IsNumeric() {
		strs := d.Strings()
		if d.IsScalar() {
			if len(strs) == 0 {
				return nil, false
			}
			return strs[0], true
		}
		out := make([]any, len(strs))
		for i, s := range strs {
			out[i] = s
		}
		return out, true
	}

	nums := d.Floats()
	if len(nums) == 0 {
		return nil, false
	}
	if d.Dtype() != inferDtype(nums) {
		return nil, false
	}
	if d.IsScalar() {
		return encodeNumber(nums[0]), true
	}
	out := make([]any, len(nums))
	for i, f := range nums {
		out[i] = encodeNumber(f)
	}
	return out, true
}

func encodeValues(d *nexus.Dataset) any {
	if d.IsNumeric() {
		nums := d.Floats()
		if d.IsScalar() && len(nums) == 1 {
			return encodeNumber(nums[0])
		}
		out := make([]any, len(nums))
		for i, f := range nums {
			out[i] = encodeNumber(f)
		}
		return out
	}
	strs := d.Strings()
	if d.IsScalar() && len(strs) == 1 {
		return strs[0]
	}
	out := make([]any, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}

// whole values emit as integers so dumps stay clean
func encodeNumber(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return int64(f)
	}
	return f
}

func encodeAttrs(attrs nexus.Attrs) yaml.MapSlice {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	ms := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		ms = append(ms, yaml.MapItem{Key: name, Value: encodeAttr(attrs[name])})
	}
	return ms
}

func encodeAttr(a nexus.Attr) any {
	if a.IsNumber() {
		f, _ := a.Float()
		return encodeNumber(f)
	}
	list := a.List()
	if len(list) > 1 {
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	}
	return a.Text()
}
