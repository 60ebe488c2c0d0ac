package options

import (
	"reflect"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"shared", Key{Self, "shared"}},
		{"sfml:shared", Key{"sfml", "shared"}},
		{"ztcpp:", Key{"ztcpp", ""}},
	}
	for _, tt := range tests {
		if got := ParseKey(tt.in); got != tt.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	self := func(opt string) Key { return Key{Self, opt} }
	sfml := func(opt string) Key { return Key{"sfml", opt} }

	tests := []struct {
		name    string
		records []Record
		want    []Assignment
	}{
		{
			name: "LastWriteWins",
			records: []Record{
				{Key: self("shared"), Value: "false"},
				{Key: sfml("shared"), Value: "true"},
				{Key: self("shared"), Value: "True"},
				{Key: sfml("shared"), Value: "false"},
			},
			want: []Assignment{
				{Self, "shared", "true"},
				{"sfml", "shared", "false"},
			},
		},
		{
			name: "RemoveDeletes",
			records: []Record{
				{Key: self("fPIC"), Value: "true"},
				{Key: self("shared"), Value: "false"},
				{Key: self("fPIC"), Remove: true},
			},
			want: []Assignment{{Self, "shared", "false"}},
		},
		{
			name: "SetAfterRemoveKeepsFirstPosition",
			records: []Record{
				{Key: self("fPIC"), Value: "true"},
				{Key: self("shared"), Value: "false"},
				{Key: self("fPIC"), Remove: true},
				{Key: self("fPIC"), Value: "false"},
			},
			want: []Assignment{
				{Self, "fPIC", "false"},
				{Self, "shared", "false"},
			},
		},
		{
			name: "SameOptionDifferentTargets",
			records: []Record{
				{Key: self("shared"), Value: "false"},
				{Key: Key{"ztcpp", "shared"}, Value: "true"},
			},
			want: []Assignment{
				{Self, "shared", "false"},
				{"ztcpp", "shared", "true"},
			},
		},
		{
			name: "Empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fold(tt.records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fold() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignmentString(t *testing.T) {
	if got := (Assignment{Self, "fPIC", "true"}).String(); got != "fPIC=true" {
		t.Errorf("got %q", got)
	}
	if got := (Assignment{"sfml", "audio", "true"}).String(); got != "sfml:audio=true" {
		t.Errorf("got %q", got)
	}
}
