package nexus

import "strings"

// Group is a container node holding attributes and an ordered collection of
// named children. Child order is exactly insertion order; search semantics
// depend on it, so it is preserved through every operation.
type Group struct {
	name     string
	attrs    Attrs
	names    []string
	children map[string]Node
}

// NewGroup creates an empty group. A nil attrs map is allowed.
func NewGroup(name string, attrs Attrs) *Group {
	return &Group{
		name:     name,
		attrs:    attrs,
		children: make(map[string]Node),
	}
}

// Name returns the group's own name. The root of a tree conventionally has
// an empty name.
func (g *Group) Name() string { return g.name }

// Rename changes the group's name and returns the group. Loaders use it
// to label a root after its source file.
func (g *Group) Rename(name string) *Group {
	g.name = name
	return g
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Attrs returns the group's attributes.
func (g *Group) Attrs() Attrs { return g.attrs }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.names) }

// Names returns the child names in insertion order.
func (g *Group) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Child returns the direct child with the given name.
func (g *Group) Child(name string) (Node, bool) {
	c, ok := g.children[name]
	return c, ok
}

// Put adds a child, or replaces an existing child of the same name while
// keeping its original position. It returns the group for chaining.
func (g *Group) Put(child Node) *Group {
	if child == nil {
		return g
	}
	name := child.Name()
	if _, exists := g.children[name]; !exists {
		g.names = append(g.names, name)
	}
	g.children[name] = child
	return g
}

// At resolves a slash-separated descendant path, segment by segment. A
// plain name is a one-segment path. Leading and trailing slashes are
// ignored. It never errors: an unresolvable path reports false.
func (g *Group) At(path string) (Node, bool) {
	var current Node = g
	found := false
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		sub, ok := current.(*Group)
		if !ok {
			return nil, false
		}
		if current, found = sub.Child(segment); !found {
			return nil, false
		}
	}
	if !found {
		// path was empty or all slashes
		return nil, false
	}
	return current, true
}

// Groups returns the direct child groups in insertion order.
func (g *Group) Groups() []*Group {
	var out []*Group
	for _, name := range g.names {
		if sub, ok := g.children[name].(*Group); ok {
			out = append(out, sub)
		}
	}
	return out
}

// Datasets returns the direct child datasets in insertion order.
func (g *Group) Datasets() []*Dataset {
	var out []*Dataset
	for _, name := range g.names {
		if d, ok := g.children[name].(*Dataset); ok {
			out = append(out, d)
		}
	}
	return out
}
