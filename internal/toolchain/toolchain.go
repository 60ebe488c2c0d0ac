// Package toolchain checks the detected C++ language standard against the
// minimum a package requires.
package toolchain

import (
	"fmt"
	"strings"
)

// Standard is a C++ language standard as a year, 1998 for C++98 through
// 2026 for C++26. GNU dialects compare equal to the ISO standard they
// extend.
type Standard int

const (
	Cpp98 Standard = 1998
	Cpp03 Standard = 2003
	Cpp11 Standard = 2011
	Cpp14 Standard = 2014
	Cpp17 Standard = 2017
	Cpp20 Standard = 2020
	Cpp23 Standard = 2023
	Cpp26 Standard = 2026
)

var years = map[string]Standard{
	"98": Cpp98,
	"03": Cpp03,
	"11": Cpp11,
	"0x": Cpp11,
	"14": Cpp14,
	"1y": Cpp14,
	"17": Cpp17,
	"1z": Cpp17,
	"20": Cpp20,
	"2a": Cpp20,
	"23": Cpp23,
	"2b": Cpp23,
	"26": Cpp26,
	"2c": Cpp26,
}

func (s Standard) String() string {
	return fmt.Sprintf("C++%02d", int(s)%100)
}

// ParseStandard parses a compiler setting such as "20", "gnu17", "c++2a"
// or "gnu++14".
func ParseStandard(v string) (Standard, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	for _, prefix := range []string{"gnu++", "c++", "gnu"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = rest
			break
		}
	}
	if std, ok := years[s]; ok {
		return std, nil
	}
	return 0, fmt.Errorf("unknown C++ standard %q", v)
}

// Error reports a toolchain that cannot build the package.
type Error struct {
	Detected string
	Minimum  Standard
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("toolchain: %v (requires %s or newer)", e.Err, e.Minimum)
	}
	return fmt.Sprintf("toolchain: %s is older than the required %s", e.Detected, e.Minimum)
}

func (e *Error) Unwrap() error { return e.Err }

// Validate fails unless detected names a standard at or above minimum. An
// empty or unparsable detected version fails.
func Validate(detected string, minimum Standard) error {
	if strings.TrimSpace(detected) == "" {
		return &Error{Detected: detected, Minimum: minimum, Err: fmt.Errorf("no C++ standard detected")}
	}
	std, err := ParseStandard(detected)
	if err != nil {
		return &Error{Detected: detected, Minimum: minimum, Err: err}
	}
	if std < minimum {
		return &Error{Detected: detected, Minimum: minimum}
	}
	return nil
}
