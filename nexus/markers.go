package nexus

// AttrDatasets resolves the children named by the given group attributes.
// Each attribute may hold a single name or a list of names, e.g.
// axes=["energy", "time"]. Names that do not resolve to a child dataset
// are silently skipped.
func AttrDatasets(g *Group, attrNames ...string) []*Dataset {
	var out []*Dataset
	if g == nil {
		return out
	}
	for _, attrName := range attrNames {
		for _, name := range g.Attrs().Get(attrName).List() {
			child, ok := g.Child(name)
			if !ok {
				continue
			}
			if d, ok := child.(*Dataset); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

// AxesSignals returns the axis datasets and the signal datasets a group
// declares through its axes, signal, and auxiliary_signals attributes.
func AxesSignals(g *Group) (axes, signals []*Dataset) {
	axes = AttrDatasets(g, AttrAxes)
	signals = AttrDatasets(g, AttrSignal, AttrAuxiliarySignals)
	return axes, signals
}
