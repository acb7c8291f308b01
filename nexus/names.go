package nexus

import "slices"

// Well-known attribute and dataset names used by self-describing trees.
const (
	// AttrClass annotates a group with its class, e.g. "NXentry".
	AttrClass = "NX_class"
	// AttrLocalName carries an alternate, instrument-local name for a node.
	AttrLocalName = "local_name"
	// AttrDefault names the child a group nominates as its default.
	AttrDefault = "default"
	// AttrAxes names the child datasets serving as plot axes.
	AttrAxes = "axes"
	// AttrSignal names the child dataset serving as the plot signal.
	AttrSignal = "signal"
	// AttrAuxiliarySignals names additional signal datasets.
	AttrAuxiliarySignals = "auxiliary_signals"
	// AttrUnits carries the physical units of a dataset value.
	AttrUnits = "units"
	// AttrDecimals carries the display precision of a dataset value.
	AttrDecimals = "decimals"

	// DatasetDefinition is the child dataset declaring a group's
	// application definition, e.g. "NXxas".
	DatasetDefinition = "definition"

	// ClassEntry and ClassSubentry mark top-level scan entries.
	ClassEntry    = "NXentry"
	ClassSubentry = "NXsubentry"
	// ClassData marks plottable data groups.
	ClassData = "NXdata"
	// ClassInstrument marks the beamline instrument group of an entry.
	ClassInstrument = "NXinstrument"
)

// EntryClasses lists the group classes treated as scan entries.
var EntryClasses = []string{ClassEntry, ClassSubentry}

// XASDefinitions lists the application definitions recognized as X-ray
// absorption scans.
var XASDefinitions = []string{"NXxas", "NXxas_new"}

// searchAttrs are the attributes consulted when matching a node identity,
// beyond the literal name. local_name helps match metadata to scan commands.
var searchAttrs = []string{AttrClass, AttrLocalName}

// SearchAttrs returns the attribute names consulted for identity matching.
func SearchAttrs() []string {
	return slices.Clone(searchAttrs)
}

// IsEntry reports whether the node is a group classed as a scan entry.
func IsEntry(n Node) bool {
	g, ok := n.(*Group)
	if !ok {
		return false
	}
	return slices.Contains(EntryClasses, g.Attrs().Text(AttrClass))
}

// IsXAS reports whether the definition string names an X-ray absorption
// application definition.
func IsXAS(definition string) bool {
	return slices.Contains(XASDefinitions, definition)
}

// Definition returns the application definition a group declares through
// its definition child dataset, or "" when absent.
func Definition(g *Group) string {
	if g == nil {
		return ""
	}
	child, ok := g.Child(DatasetDefinition)
	if !ok {
		return ""
	}
	d, ok := child.(*Dataset)
	if !ok {
		return ""
	}
	return d.Text()
}
