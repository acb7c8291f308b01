package search

import "github.com/mmg-tools/nxsearch/nexus"

// identityAttrs are the attributes consulted for matching beyond the
// literal name.
var identityAttrs = nexus.SearchAttrs()

// structuralNames reads the axes and signal nominations from a group's
// attributes. List-valued axes contribute only their first element.
// Missing or malformed attributes yield "".
func structuralNames(g *nexus.Group) (axes, signal string) {
	attrs := g.Attrs()
	return attrs.Text(nexus.AttrAxes), attrs.Text(nexus.AttrSignal)
}

// matches reports whether the token names the child through any entry of
// its identity set. Empty attribute values contribute nothing, so a
// missing annotation can never match.
func matches(child nexus.Node, token, axes, signal string) bool {
	name := child.Name()
	if token == name {
		return true
	}
	attrs := child.Attrs()
	for _, attrName := range identityAttrs {
		if v := attrs.Text(attrName); v != "" && v == token {
			return true
		}
	}
	if g, ok := child.(*nexus.Group); ok {
		if def := nexus.Definition(g); def != "" && def == token {
			return true
		}
	}
	if axes != "" && name == axes && token == nexus.AttrAxes {
		return true
	}
	if signal != "" && name == signal && token == nexus.AttrSignal {
		return true
	}
	return false
}

// consume removes the leading token when the child matches it, otherwise
// returns the list unchanged. Consumption is strictly left to right.
func consume(child nexus.Node, tokens []string, axes, signal string) []string {
	if matches(child, tokens[0], axes, signal) {
		return tokens[1:]
	}
	return tokens
}
