package nexus

import (
	"reflect"
	"testing"
)

func TestGroupOrderPreserved(t *testing.T) {
	g := NewGroup("entry", nil).
		Put(NewString("title", "scan 1", nil)).
		Put(NewGroup("instrument", nil)).
		Put(NewScalar("count_time", 1.0, nil)).
		Put(NewGroup("measurement", nil))

	want := []string{"title", "instrument", "count_time", "measurement"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestGroupPutReplaceKeepsPosition(t *testing.T) {
	g := NewGroup("entry", nil).
		Put(NewString("a", "1", nil)).
		Put(NewString("b", "2", nil)).
		Put(NewString("c", "3", nil))

	g.Put(NewString("b", "replaced", nil))

	want := []string{"a", "b", "c"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after replace = %v, want %v", got, want)
	}

	child, ok := g.Child("b")
	if !ok {
		t.Fatal("child b missing after replace")
	}
	if got := child.(*Dataset).Text(); got != "replaced" {
		t.Errorf("replaced child value = %q, want %q", got, "replaced")
	}
}

func TestGroupAt(t *testing.T) {
	sum := NewNumeric("sum", DtypeFloat64, []int{3}, []float64{1, 2, 3}, nil)
	data := NewGroup("data", nil).Put(sum)
	entry := NewGroup("entry", nil).Put(data)
	root := NewGroup("", nil).Put(entry)

	tests := []struct {
		name   string
		path   string
		want   Node
		wantOk bool
	}{
		{name: "single name", path: "entry", want: entry, wantOk: true},
		{name: "two segments", path: "entry/data", want: data, wantOk: true},
		{name: "deep path", path: "entry/data/sum", want: sum, wantOk: true},
		{name: "leading slash", path: "/entry/data", want: data, wantOk: true},
		{name: "trailing slash", path: "entry/data/", want: data, wantOk: true},
		{name: "missing segment", path: "entry/missing/sum", wantOk: false},
		{name: "path through dataset", path: "entry/data/sum/deeper", wantOk: false},
		{name: "empty path", path: "", wantOk: false},
		{name: "only slashes", path: "//", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := root.At(tt.path)
			if ok != tt.wantOk {
				t.Fatalf("At(%q) ok = %v, want %v", tt.path, ok, tt.wantOk)
			}
			if tt.wantOk && got != tt.want {
				t.Errorf("At(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGroupKindAccessors(t *testing.T) {
	g := NewGroup("data", Attrs{AttrClass: Str(ClassData)})
	if g.Kind() != KindGroup {
		t.Errorf("Kind() = %v, want %v", g.Kind(), KindGroup)
	}
	if g.Kind().String() != "group" {
		t.Errorf("Kind().String() = %q, want %q", g.Kind().String(), "group")
	}
	if got := g.Attrs().Text(AttrClass); got != ClassData {
		t.Errorf("class attr = %q, want %q", got, ClassData)
	}
}

func TestGroupDatasetsAndGroups(t *testing.T) {
	g := NewGroup("entry", nil).
		Put(NewGroup("instrument", nil)).
		Put(NewString("title", "t", nil)).
		Put(NewGroup("data", nil)).
		Put(NewScalar("count", 3, nil))

	if got := len(g.Groups()); got != 2 {
		t.Errorf("len(Groups()) = %d, want 2", got)
	}
	if got := len(g.Datasets()); got != 2 {
		t.Errorf("len(Datasets()) = %d, want 2", got)
	}
	if got := g.Datasets()[0].Name(); got != "title" {
		t.Errorf("first dataset = %q, want %q", got, "title")
	}
}

func TestPathTo(t *testing.T) {
	sum := NewNumeric("sum", DtypeFloat64, []int{3}, []float64{1, 2, 3}, nil)
	data := NewGroup("data", nil).Put(sum)
	entry := NewGroup("entry", nil).Put(data)
	root := NewGroup("", nil).Put(entry)
	stray := NewGroup("stray", nil)

	tests := []struct {
		name   string
		target Node
		want   string
		wantOk bool
	}{
		{name: "root itself", target: root, want: "/", wantOk: true},
		{name: "group", target: data, want: "/entry/data", wantOk: true},
		{name: "dataset", target: sum, want: "/entry/data/sum", wantOk: true},
		{name: "unreachable", target: stray, wantOk: false},
		{name: "nil target", target: nil, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PathTo(root, tt.target)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("PathTo() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
