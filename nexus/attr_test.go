package nexus

import (
	"reflect"
	"testing"
)

func TestAttrOf(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantText string
		wantList []string
	}{
		{
			name:     "string",
			value:    "NXentry",
			wantText: "NXentry",
			wantList: []string{"NXentry"},
		},
		{
			name:     "byte string",
			value:    []byte("NXdata"),
			wantText: "NXdata",
			wantList: []string{"NXdata"},
		},
		{
			name:     "string list keeps all elements",
			value:    []any{"energy", "time"},
			wantText: "energy",
			wantList: []string{"energy", "time"},
		},
		{
			name:     "empty string normalizes away",
			value:    "",
			wantText: "",
			wantList: nil,
		},
		{
			name:     "list drops empty elements",
			value:    []any{"", "signal"},
			wantText: "signal",
			wantList: []string{"signal"},
		},
		{
			name:     "integer",
			value:    int64(2),
			wantText: "2",
			wantList: []string{"2"},
		},
		{
			name:     "float keeps shortest form",
			value:    3.14,
			wantText: "3.14",
			wantList: []string{"3.14"},
		},
		{
			name:     "whole float drops the fraction",
			value:    8.0,
			wantText: "8",
			wantList: []string{"8"},
		},
		{
			name:     "nil",
			value:    nil,
			wantText: "",
			wantList: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := AttrOf(tt.value)
			if got := attr.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if got := attr.List(); !reflect.DeepEqual(got, tt.wantList) {
				t.Errorf("List() = %v, want %v", got, tt.wantList)
			}
		})
	}
}

func TestAttrIsZero(t *testing.T) {
	if !(Attr{}).IsZero() {
		t.Error("zero Attr should report IsZero")
	}
	if !Str("").IsZero() {
		t.Error("empty string attr should report IsZero")
	}
	if Str("x").IsZero() {
		t.Error("non-empty attr should not report IsZero")
	}
	if Num(0).IsZero() {
		t.Error("numeric zero is still a present attribute")
	}
}

func TestAttrInt(t *testing.T) {
	tests := []struct {
		name   string
		attr   Attr
		want   int
		wantOk bool
	}{
		{name: "numeric", attr: Num(2), want: 2, wantOk: true},
		{name: "parsed from text", attr: Str("4"), want: 4, wantOk: true},
		{name: "non-numeric text", attr: Str("deg"), wantOk: false},
		{name: "missing", attr: Attr{}, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.attr.Int()
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("Int() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestAttrsNilMap(t *testing.T) {
	var attrs Attrs
	if attrs.Has("units") {
		t.Error("nil Attrs should have nothing")
	}
	if got := attrs.Text("units"); got != "" {
		t.Errorf("nil Attrs Text() = %q, want empty", got)
	}
	if !attrs.Get("units").IsZero() {
		t.Error("nil Attrs Get() should be zero")
	}
}
