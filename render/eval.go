package render

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"

	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/search"
)

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// reserved words that are never tree lookups
var exprKeywords = map[string]bool{
	"true": true, "false": true, "nil": true,
	"and": true, "or": true, "not": true, "in": true,
}

// EvalExpression evaluates a numeric expression over the tree, e.g. a
// normalization factor "Transmission * count_time / (rc / 300.0)". Each
// identifier is resolved through the search core, so class names and
// local_name aliases work as variables. Every identifier must resolve to
// a numeric scalar.
func EvalExpression(root *nexus.Group, expression string) (float64, error) {
	env := make(map[string]any)
	for _, ident := range identifiers(expression) {
		v, err := search.FindValue(root, nil, ident)
		if err != nil {
			return 0, err
		}
		f, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnresolvedVariable, ident)
		}
		env[ident] = f
	}

	out, err := expr.Eval(expression, env)
	if err != nil {
		return 0, fmt.Errorf("evaluating %q: %w", expression, err)
	}
	result, ok := toFloat(out)
	if !ok {
		return 0, fmt.Errorf("%w: got %T", ErrNotNumeric, out)
	}
	return result, nil
}

// identifiers returns the distinct variable names in the expression,
// skipping function calls and member accesses.
func identifiers(expression string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, loc := range identPattern.FindAllStringIndex(expression, -1) {
		name := expression[loc[0]:loc[1]]
		if exprKeywords[name] || seen[name] {
			continue
		}
		if loc[0] > 0 && expression[loc[0]-1] == '.' {
			continue
		}
		if next := nextNonSpace(expression, loc[1]); next == '(' {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
