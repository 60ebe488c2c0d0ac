package toolchain

import (
	"errors"
	"testing"
)

func TestParseStandard(t *testing.T) {
	tests := []struct {
		in   string
		want Standard
	}{
		{"98", Cpp98},
		{"gnu03", Cpp03},
		{"11", Cpp11},
		{"c++0x", Cpp11},
		{"gnu++1y", Cpp14},
		{"17", Cpp17},
		{"2a", Cpp20},
		{"gnu20", Cpp20},
		{" 23 ", Cpp23},
		{"C++26", Cpp26},
	}
	for _, tt := range tests {
		got, err := ParseStandard(tt.in)
		if err != nil {
			t.Errorf("ParseStandard(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStandard(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateTooOld(t *testing.T) {
	tooOld := []string{"98", "gnu98", "11", "gnu11", "14", "gnu14", "17", "gnu17", "03", "1z"}
	for _, v := range tooOld {
		err := Validate(v, Cpp20)
		var te *Error
		if !errors.As(err, &te) {
			t.Errorf("Validate(%q) = %v, want *Error", v, err)
			continue
		}
		if te.Err != nil {
			t.Errorf("Validate(%q): unexpected cause %v", v, te.Err)
		}
	}
}

func TestValidateAccepted(t *testing.T) {
	for _, v := range []string{"20", "gnu20", "2a", "23", "gnu23", "2b", "26", "2c"} {
		if err := Validate(v, Cpp20); err != nil {
			t.Errorf("Validate(%q) failed: %v", v, err)
		}
	}
}

func TestValidateUnparsable(t *testing.T) {
	for _, v := range []string{"", "  ", "None", "20x", "gnu", "c++"} {
		err := Validate(v, Cpp20)
		var te *Error
		if !errors.As(err, &te) || te.Err == nil {
			t.Errorf("Validate(%q) = %v, want *Error with cause", v, err)
		}
	}
}

func TestStandardString(t *testing.T) {
	if got := Cpp03.String(); got != "C++03" {
		t.Errorf("got %q", got)
	}
	if got := Cpp20.String(); got != "C++20" {
		t.Errorf("got %q", got)
	}
}
