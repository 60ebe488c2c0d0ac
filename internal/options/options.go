// Package options computes the option values pushed onto the package itself
// and onto its dependencies for a given target platform.
package options

import (
	"fmt"
	"slices"
	"strings"
)

// Platform describes the build target.
type Platform struct {
	OS        string
	Arch      string
	Compiler  string
	CppStd    string
	BuildType string
}

// Decl declares an option of the package itself.
type Decl struct {
	Name string
	// Values lists the accepted values; empty accepts anything.
	Values  []string
	Default string
}

// Stage selects when a rule is applied relative to user overrides.
type Stage int

const (
	// StageDefault rules run before user overrides, which may replace them.
	StageDefault Stage = iota
	// StageForce rules run after user overrides.
	StageForce
)

// Condition restricts a rule. The zero Condition always holds.
type Condition struct {
	OS    []string
	NotOS []string
	// Options are self option values that must currently hold.
	Options map[string]string
}

func (c Condition) holds(p Platform, s *state) bool {
	if len(c.OS) > 0 && !containsFold(c.OS, p.OS) {
		return false
	}
	if containsFold(c.NotOS, p.OS) {
		return false
	}
	for opt, want := range c.Options {
		got, ok := s.get(Key{Target: Self, Option: opt})
		if !ok || got != normalize(want) {
			return false
		}
	}
	return true
}

// Rule sets or removes one option when its condition holds. Removing marks
// the option irrelevant: it is left out of the result whatever else sets
// it.
type Rule struct {
	Stage  Stage
	Target string // Self or a dependency name; empty means Self
	Option string
	Value  string
	Remove bool
	When   Condition
}

func (r Rule) key() Key {
	target := r.Target
	if target == "" {
		target = Self
	}
	return Key{Target: target, Option: r.Option}
}

// Error reports an invalid option declaration or value.
type Error struct {
	Option string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("option %s: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("option %s=%s: %s", e.Option, e.Value, e.Reason)
}

// Cascader holds the option declarations and rules of a package.
type Cascader struct {
	decls []Decl
	rules []Rule
	// deps, when set, are the only dependencies options may be set on.
	deps map[string]bool
}

// New validates decls and rules.
func New(decls []Decl, rules []Rule) (*Cascader, error) {
	known := make(map[string]bool, len(decls))
	for _, d := range decls {
		if d.Name == "" || strings.Contains(d.Name, ":") {
			return nil, &Error{Option: d.Name, Reason: "invalid option name"}
		}
		if known[d.Name] {
			return nil, &Error{Option: d.Name, Reason: "declared more than once"}
		}
		known[d.Name] = true
		if !d.accepts(d.Default) {
			return nil, &Error{Option: d.Name, Value: d.Default, Reason: "default is not an accepted value"}
		}
	}
	for _, r := range rules {
		if r.Option == "" {
			return nil, &Error{Option: r.key().String(), Reason: "rule without an option"}
		}
		if r.key().Target == Self && !known[r.Option] {
			return nil, &Error{Option: r.Option, Reason: "rule refers to an undeclared option"}
		}
		for opt := range r.When.Options {
			if !known[opt] {
				return nil, &Error{Option: opt, Reason: "condition refers to an undeclared option"}
			}
		}
	}
	return &Cascader{decls: slices.Clone(decls), rules: slices.Clone(rules)}, nil
}

// SetDependencies restricts dependency options, from rules and from user
// values alike, to the named packages. It fails if a rule targets another
// package.
func (c *Cascader) SetDependencies(names []string) error {
	deps := make(map[string]bool, len(names))
	for _, n := range names {
		deps[n] = true
	}
	for _, r := range c.rules {
		if k := r.key(); k.Target != Self && !deps[k.Target] {
			return &Error{Option: k.String(), Reason: "rule targets a package that is not required"}
		}
	}
	c.deps = deps
	return nil
}

func (d Decl) accepts(v string) bool {
	if len(d.Values) == 0 {
		return true
	}
	v = normalize(v)
	for _, allowed := range d.Values {
		if normalize(allowed) == v {
			return true
		}
	}
	return false
}

// Cascade computes the final assignments for platform p. user holds user
// overrides keyed "option" or "dependency:option".
//
// Records are folded in this order: declared defaults, StageDefault rules,
// user overrides, StageForce rules. Options removed by any rule whose
// condition held are then dropped. The result is ordered by first
// appearance and depends only on the arguments.
func (c *Cascader) Cascade(p Platform, user map[string]string) ([]Assignment, error) {
	var s state
	irrelevant := make(map[Key]bool)

	for _, d := range c.decls {
		s.apply(Record{Key: Key{Target: Self, Option: d.Name}, Value: d.Default})
	}
	c.applyRules(StageDefault, p, &s, irrelevant)

	overrides, err := c.userRecords(user)
	if err != nil {
		return nil, err
	}
	for _, r := range overrides {
		s.apply(r)
	}
	c.applyRules(StageForce, p, &s, irrelevant)

	return s.assignments(irrelevant), nil
}

func (c *Cascader) applyRules(stage Stage, p Platform, s *state, irrelevant map[Key]bool) {
	for _, r := range c.rules {
		if r.Stage != stage || !r.When.holds(p, s) {
			continue
		}
		if r.Remove {
			irrelevant[r.key()] = true
		}
		s.apply(Record{Key: r.key(), Value: r.Value, Remove: r.Remove})
	}
}

// userRecords validates user overrides and sorts them by key so map
// iteration order never leaks into the result.
func (c *Cascader) userRecords(user map[string]string) ([]Record, error) {
	keys := make([]string, 0, len(user))
	for k := range user {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	records := make([]Record, 0, len(keys))
	for _, raw := range keys {
		k, v := ParseKey(raw), user[raw]
		if k.Target == "" || k.Option == "" {
			return nil, &Error{Option: raw, Value: v, Reason: "invalid option key"}
		}
		if k.Target != Self && c.deps != nil && !c.deps[k.Target] {
			return nil, &Error{Option: raw, Value: v, Reason: fmt.Sprintf("%s is not a requirement", k.Target)}
		}
		if k.Target == Self {
			i := slices.IndexFunc(c.decls, func(d Decl) bool { return d.Name == k.Option })
			if i < 0 {
				return nil, &Error{Option: raw, Value: v, Reason: "unknown option"}
			}
			if d := c.decls[i]; !d.accepts(v) {
				return nil, &Error{Option: raw, Value: v, Reason: fmt.Sprintf("accepted values are %s", strings.Join(d.Values, ", "))}
			}
		}
		records = append(records, Record{Key: k, Value: v})
	}
	return records, nil
}

// SelfValues extracts the package's own options from assignments.
func SelfValues(as []Assignment) map[string]string {
	out := make(map[string]string)
	for _, a := range as {
		if a.Target == Self {
			out[a.Key] = a.Value
		}
	}
	return out
}

// DependencyValues extracts the options pushed onto dependency dep.
func DependencyValues(as []Assignment, dep string) map[string]string {
	out := make(map[string]string)
	for _, a := range as {
		if a.Target == dep {
			out[a.Key] = a.Value
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}
