package formula

// Recipe is the declarative description of one package revision. It serves
// every package version from FromVer up to the next revision's FromVer.
type Recipe struct {
	Name    string `json:"name"`
	FromVer string `json:"fromVer"`

	// MinCppStd is the oldest C++ standard the package compiles with,
	// spelled as a compiler setting ("20", "gnu20").
	MinCppStd string `json:"minCppStd,omitempty"`

	// HeaderPatterns select the files copied from module include
	// directories.
	HeaderPatterns []string `json:"headerPatterns,omitempty"`

	Modules  []Module  `json:"modules"`
	Requires []Require `json:"requires,omitempty"`
	Options  []Option  `json:"options,omitempty"`
	Rules    []Rule    `json:"rules,omitempty"`

	// SystemLibs lists OS libraries linked after the package's own, keyed by
	// target OS.
	SystemLibs map[string][]string `json:"systemLibs,omitempty"`
}

// Module declares a build unit.
type Module struct {
	Name       string `json:"name"`
	Layer      string `json:"layer"`
	Overlay    bool   `json:"overlay,omitempty"`
	HeaderOnly bool   `json:"headerOnly,omitempty"`
	Stage      int    `json:"stage,omitempty"`
	Library    string `json:"library,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
	IncludeDir string `json:"includeDir,omitempty"`
}

// Require declares an external package, "name/version[@user/channel]".
type Require struct {
	Ref        string `json:"ref"`
	Visibility string `json:"visibility,omitempty"`
	Override   bool   `json:"override,omitempty"`
}

// Option declares an option of the package itself.
type Option struct {
	Name    string   `json:"name"`
	Values  []string `json:"values,omitempty"`
	Default string   `json:"default"`
}

// Rule sets or removes an option when its condition holds. Stage is
// "default" (before user values) or "force" (after them).
type Rule struct {
	Stage  string    `json:"stage,omitempty"`
	Target string    `json:"target,omitempty"`
	Option string    `json:"option"`
	Value  string    `json:"value,omitempty"`
	Remove bool      `json:"remove,omitempty"`
	When   Condition `json:"when,omitempty"`
}

// Condition restricts a Rule to target platforms and self option values.
type Condition struct {
	OS      []string          `json:"os,omitempty"`
	NotOS   []string          `json:"notOS,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}
