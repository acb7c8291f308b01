package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/mmg-tools/nxsearch/nexus"
)

// reserved dataset keys
const (
	keyAttrs = "@attrs"
	keyValue = "@value"
	keyDtype = "@dtype"
	keyShape = "@shape"
)

// DecodeGroup decodes one tree dump document into a root group with an
// empty name. Child order follows document order.
func DecodeGroup(data []byte) (*nexus.Group, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	ms, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}
	return decodeGroup("", ms)
}

func decodeGroup(name string, ms yaml.MapSlice) (*nexus.Group, error) {
	g := nexus.NewGroup(name, decodeAttrs(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		if strings.HasPrefix(key, "@") {
			continue
		}
		child, err := decodeNode(key, item.Value)
		if err != nil {
			return nil, fmt.Errorf("child %q: %w", key, err)
		}
		g.Put(child)
	}
	return g, nil
}

func decodeNode(name string, v any) (nexus.Node, error) {
	if ms, ok := v.(yaml.MapSlice); ok {
		if _, annotated := mapValue(ms, keyValue); annotated {
			return decodeDataset(name, ms)
		}
		return decodeGroup(name, ms)
	}
	return decodeValues(name, v, "", nil, nil), nil
}

func decodeDataset(name string, ms yaml.MapSlice) (*nexus.Dataset, error) {
	value, _ := mapValue(ms, keyValue)
	dtype := ""
	if dv, ok := mapValue(ms, keyDtype); ok {
		dtype = fmt.Sprint(dv)
	}
	var shape []int
	if sv, ok := mapValue(ms, keyShape); ok {
		shape = decodeShape(sv)
	}
	return decodeValues(name, value, dtype, shape, decodeAttrs(ms)), nil
}

// decodeValues turns a decoded scalar or array into a dataset. Numeric
// leaves become a numeric dataset; anything else degrades to strings.
func decodeValues(name string, v any, dtype string, shape []int, attrs nexus.Attrs) *nexus.Dataset {
	leaves, inferred := flatten(v)
	if len(shape) == 0 {
		shape = inferred
	}

	if dtype != nexus.DtypeString {
		if nums, ok := allNumeric(leaves); ok {
			if dtype == "" {
				dtype = inferDtype(nums)
			}
			return nexus.NewNumeric(name, dtype, shape, nums, attrs)
		}
	}
	strs := make([]string, len(leaves))
	for i, leaf := range leaves {
		strs[i] = scalarText(leaf)
	}
	return nexus.NewStrings(name, shape, strs, attrs)
}

// flatten collects the leaves of a possibly nested array, row-major, and
// infers its shape. Scalars yield one leaf and a nil shape. Ragged nests
// degrade to a flat one-dimensional shape.
func flatten(v any) ([]any, []int) {
	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return []any{v}, nil
	}

	leaves := make([]any, 0, len(list))
	var inner []int
	regular := true
	for i, elem := range list {
		sub, subShape := flatten(elem)
		leaves = append(leaves, sub...)
		if i == 0 {
			inner = subShape
		} else if !equalShape(inner, subShape) {
			regular = false
		}
	}
	if !regular {
		return leaves, []int{len(leaves)}
	}
	return leaves, append([]int{len(list)}, inner...)
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allNumeric(leaves []any) ([]float64, bool) {
	if len(leaves) == 0 {
		return nil, true
	}
	nums := make([]float64, len(leaves))
	for i, leaf := range leaves {
		f, ok := scalarFloat(leaf)
		if !ok {
			return nil, false
		}
		nums[i] = f
	}
	return nums, true
}

func inferDtype(nums []float64) string {
	for _, f := range nums {
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nexus.DtypeFloat64
		}
	}
	return nexus.DtypeInt64
}

func scalarFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		if f, ok := scalarFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return fmt.Sprint(x)
	}
}

func decodeAttrs(ms yaml.MapSlice) nexus.Attrs {
	av, ok := mapValue(ms, keyAttrs)
	if !ok {
		return nil
	}
	ams, ok := av.(yaml.MapSlice)
	if !ok {
		return nil
	}
	attrs := make(nexus.Attrs, len(ams))
	for _, item := range ams {
		attrs[fmt.Sprint(item.Key)] = nexus.AttrOf(plain(item.Value))
	}
	return attrs
}

// plain strips MapSlice nesting so attribute normalization sees only
// scalars and lists.
func plain(v any) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		return fmt.Sprint(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

func decodeShape(v any) []int {
	list, ok := v.([]any)
	if !ok {
		if n, ok := scalarFloat(v); ok {
			return []int{int(n)}
		}
		return nil
	}
	shape := make([]int, 0, len(list))
	for _, e := range list {
		n, ok := scalarFloat(e)
		if !ok {
			return nil
		}
		shape = append(shape, int(n))
	}
	return shape
}

func mapValue(ms yaml.MapSlice, key string) (any, bool) {
	for _, item := range ms {
		if fmt.Sprint(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}
