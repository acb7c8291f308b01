package search

import "github.com/mmg-tools/nxsearch/nexus"

// firstMatchOrder returns child names in the deliberate first-match
// traversal order: the @default child first, then dataset children, then
// every child, insertion order throughout, deduplicated. Datasets come
// before groups so a shallow dataset match beats a deeper one inside a
// sibling group.
func firstMatchOrder(g *nexus.Group) []string {
	names := g.Names()
	ordered := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			ordered = append(ordered, name)
		}
	}

	if def := g.Attrs().Text(nexus.AttrDefault); def != "" {
		if _, ok := g.Child(def); ok {
			add(def)
		}
	}
	for _, name := range names {
		if child, _ := g.Child(name); child.Kind() == nexus.KindDataset {
			add(name)
		}
	}
	for _, name := range names {
		add(name)
	}
	return ordered
}
