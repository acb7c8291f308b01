package nexus

import "testing"

func nxdataGroup() *Group {
	return NewGroup("data", Attrs{
		AttrClass:            Str(ClassData),
		AttrAxes:             StrList("energy", "time"),
		AttrSignal:           Str("intensity"),
		AttrAuxiliarySignals: Str("monitor"),
	}).
		Put(NewNumeric("energy", DtypeFloat64, []int{3}, []float64{1, 2, 3}, nil)).
		Put(NewNumeric("intensity", DtypeFloat64, []int{3}, []float64{9, 8, 7}, nil)).
		Put(NewNumeric("monitor", DtypeFloat64, []int{3}, []float64{1, 1, 1}, nil))
}

func TestAttrDatasets(t *testing.T) {
	g := nxdataGroup()

	t.Run("list attribute skips missing names", func(t *testing.T) {
		// "time" is named by @axes but has no child dataset
		axes := AttrDatasets(g, AttrAxes)
		if len(axes) != 1 || axes[0].Name() != "energy" {
			t.Errorf("AttrDatasets(axes) = %v, want [energy]", names(axes))
		}
	})

	t.Run("missing attribute yields nothing", func(t *testing.T) {
		if got := AttrDatasets(g, "no_such_attr"); len(got) != 0 {
			t.Errorf("AttrDatasets(no_such_attr) = %v, want empty", names(got))
		}
	})

	t.Run("group children are skipped", func(t *testing.T) {
		g := NewGroup("outer", Attrs{AttrAxes: Str("inner")}).
			Put(NewGroup("inner", nil))
		if got := AttrDatasets(g, AttrAxes); len(got) != 0 {
			t.Errorf("AttrDatasets over group child = %v, want empty", names(got))
		}
	})
}

func TestAxesSignals(t *testing.T) {
	axes, signals := AxesSignals(nxdataGroup())

	if len(axes) != 1 || axes[0].Name() != "energy" {
		t.Errorf("axes = %v, want [energy]", names(axes))
	}
	if len(signals) != 2 || signals[0].Name() != "intensity" || signals[1].Name() != "monitor" {
		t.Errorf("signals = %v, want [intensity monitor]", names(signals))
	}
}

func TestIsEntry(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{name: "entry", node: NewGroup("entry", Attrs{AttrClass: Str(ClassEntry)}), want: true},
		{name: "subentry", node: NewGroup("sub", Attrs{AttrClass: Str(ClassSubentry)}), want: true},
		{name: "instrument", node: NewGroup("i", Attrs{AttrClass: Str("NXinstrument")}), want: false},
		{name: "no class", node: NewGroup("g", nil), want: false},
		{name: "dataset", node: NewScalar("d", 1, Attrs{AttrClass: Str(ClassEntry)}), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEntry(tt.node); got != tt.want {
				t.Errorf("IsEntry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefinition(t *testing.T) {
	withDef := NewGroup("sub", nil).Put(NewString(DatasetDefinition, "NXxas", nil))
	if got := Definition(withDef); got != "NXxas" {
		t.Errorf("Definition() = %q, want %q", got, "NXxas")
	}
	if got := Definition(NewGroup("plain", nil)); got != "" {
		t.Errorf("Definition() without child = %q, want empty", got)
	}

	// a definition child that is a group contributes nothing
	withGroupDef := NewGroup("sub", nil).Put(NewGroup(DatasetDefinition, nil))
	if got := Definition(withGroupDef); got != "" {
		t.Errorf("Definition() with group child = %q, want empty", got)
	}

	if !IsXAS("NXxas") || !IsXAS("NXxas_new") || IsXAS("NXmx") {
		t.Error("IsXAS vocabulary mismatch")
	}
}

func names(ds []*Dataset) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name()
	}
	return out
}
