package nexus

// Kind identifies the flavor of a tree node.
type Kind int

const (
	// KindGroup is a container node with ordered named children.
	KindGroup Kind = iota + 1
	// KindDataset is a leaf node holding a typed array value.
	KindDataset
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDataset:
		return "dataset"
	}
	return "unknown"
}

// Node is a single item in a hierarchical data tree: either a Group or a
// Dataset. Every node has a name and a set of attributes.
type Node interface {
	Name() string
	Kind() Kind
	Attrs() Attrs
}

// PathTo returns the slash-separated path from root to target, found by
// identity. The root itself is "/". Returns false when target is not
// reachable from root.
func PathTo(root *Group, target Node) (string, bool) {
	if root == nil || target == nil {
		return "", false
	}
	if Node(root) == target {
		return "/", true
	}
	return pathTo(root, target, "")
}

func pathTo(g *Group, target Node, prefix string) (string, bool) {
	for _, name := range g.names {
		child := g.children[name]
		path := prefix + "/" + name
		if child == target {
			return path, true
		}
		if sub, ok := child.(*Group); ok {
			if found, ok := pathTo(sub, target, path); ok {
				return found, true
			}
		}
	}
	return "", false
}
