package codec

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/mmg-tools/nxsearch/nexus"
)

// ToAny renders a node as plain nested values for structural queries and
// JSON display. Groups become maps with attributes under "@attrs";
// datasets become their bare value, or a map carrying "@value" and
// "@attrs" when attributed. Child order is not represented.
func ToAny(n nexus.Node) any {
	switch x := n.(type) {
	case *nexus.Group:
		out := make(map[string]any, x.Len()+1)
		if attrs := x.Attrs(); len(attrs) > 0 {
			out[keyAttrs] = attrsToAny(attrs)
		}
		for _, name := range x.Names() {
			child, _ := x.Child(name)
			out[name] = ToAny(child)
		}
		return out
	case *nexus.Dataset:
		if attrs := x.Attrs(); len(attrs) > 0 {
			return map[string]any{
				keyValue: encodeValues(x),
				keyAttrs: attrsToAny(attrs),
			}
		}
		return encodeValues(x)
	default:
		return nil
	}
}

func attrsToAny(attrs nexus.Attrs) map[string]any {
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		out[name] = encodeAttr(attr)
	}
	return out
}

// Query evaluates a JSONPath expression against the plain rendering of
// the tree, complementing identity search with raw structural addressing:
//
//	results, err := codec.Query(root, "$.entry.measurement.energy")
func Query(root *nexus.Group, selector string) ([]any, error) {
	if root == nil {
		return nil, ErrNilGroup
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", selector, err)
	}
	return x.Get(ToAny(root)), nil
}
