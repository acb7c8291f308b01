package nexus

import (
	"fmt"
	"strconv"
)

// Attr is a normalized attribute value. Source data stores attributes as
// strings, byte strings, string lists, or numbers; Attr reduces all of them
// to a list of strings or a number. Normalization is total: malformed input
// degrades to text and never produces an error. The zero value represents a
// missing attribute.
type Attr struct {
	text    []string
	num     float64
	numeric bool
}

// Str returns a single-string attribute. An empty string normalizes to the
// zero Attr.
func Str(s string) Attr {
	if s == "" {
		return Attr{}
	}
	return Attr{text: []string{s}}
}

// StrList returns a string-list attribute. Empty elements are dropped.
func StrList(ss ...string) Attr {
	text := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			text = append(text, s)
		}
	}
	if len(text) == 0 {
		return Attr{}
	}
	return Attr{text: text}
}

// Num returns a numeric attribute.
func Num(f float64) Attr {
	return Attr{num: f, numeric: true}
}

// AttrOf normalizes an arbitrary decoded value into an Attr. Byte strings
// are decoded as text, lists keep their elements as strings, and numbers
// are kept numeric. Anything else degrades to its printed form.
func AttrOf(v any) Attr {
	switch x := v.(type) {
	case nil:
		return Attr{}
	case Attr:
		return x
	case string:
		return Str(x)
	case []byte:
		return Str(string(x))
	case bool:
		return Str(strconv.FormatBool(x))
	case int:
		return Num(float64(x))
	case int32:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case uint64:
		return Num(float64(x))
	case float32:
		return Num(float64(x))
	case float64:
		return Num(x)
	case []string:
		return StrList(x...)
	case []any:
		text := make([]string, 0, len(x))
		for _, e := range x {
			if s := AttrOf(e).Text(); s != "" {
				text = append(text, s)
			}
		}
		return StrList(text...)
	default:
		return Str(fmt.Sprint(x))
	}
}

// IsZero reports whether the attribute is missing or empty.
func (a Attr) IsZero() bool {
	return !a.numeric && len(a.text) == 0
}

// IsNumber reports whether the attribute holds a number rather than text.
func (a Attr) IsNumber() bool {
	return a.numeric
}

// Text returns the first element of the attribute as a string, or "" for a
// missing attribute. Numbers are formatted with the shortest exact decimal
// form.
func (a Attr) Text() string {
	if a.numeric {
		return strconv.FormatFloat(a.num, 'g', -1, 64)
	}
	if len(a.text) > 0 {
		return a.text[0]
	}
	return ""
}

// List returns all elements of the attribute as strings. Single values
// yield a one-element list; missing attributes yield nil.
func (a Attr) List() []string {
	if a.numeric {
		return []string{a.Text()}
	}
	if len(a.text) == 0 {
		return nil
	}
	out := make([]string, len(a.text))
	copy(out, a.text)
	return out
}

// Int returns the attribute as an integer. Text values are parsed.
func (a Attr) Int() (int, bool) {
	if a.numeric {
		return int(a.num), true
	}
	if len(a.text) > 0 {
		if n, err := strconv.Atoi(a.text[0]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Float returns the attribute as a float64. Text values are parsed.
func (a Attr) Float() (float64, bool) {
	if a.numeric {
		return a.num, true
	}
	if len(a.text) > 0 {
		if f, err := strconv.ParseFloat(a.text[0], 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// String implements fmt.Stringer.
func (a Attr) String() string {
	return a.Text()
}

// Attrs is a named set of attributes. A nil map is a valid empty set.
type Attrs map[string]Attr

// Get returns the named attribute, or the zero Attr when absent.
func (as Attrs) Get(name string) Attr {
	return as[name]
}

// Text returns the text of the named attribute, or "" when absent.
func (as Attrs) Text(name string) string {
	return as[name].Text()
}

// Has reports whether the named attribute is present and non-empty.
func (as Attrs) Has(name string) bool {
	return !as[name].IsZero()
}
