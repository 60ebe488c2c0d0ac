package options

import "strings"

// Self is the target naming the package being built.
const Self = "self"

// Key identifies an option of a target.
type Key struct {
	Target string
	Option string
}

func (k Key) String() string {
	if k.Target == Self {
		return k.Option
	}
	return k.Target + ":" + k.Option
}

// ParseKey parses "option" (a self option) or "dependency:option".
func ParseKey(s string) Key {
	if target, opt, ok := strings.Cut(s, ":"); ok {
		return Key{Target: target, Option: opt}
	}
	return Key{Target: Self, Option: s}
}

// Record is one entry of the fold: a value set on a key, or the key's
// removal.
type Record struct {
	Key
	Value  string
	Remove bool
}

// Assignment is a final option value.
type Assignment struct {
	Target string
	Key    string
	Value  string
}

func (a Assignment) String() string {
	return Key{a.Target, a.Key}.String() + "=" + a.Value
}

// Fold applies records in order, later records for the same key winning.
// The result lists keys in the order they were first set.
func Fold(records []Record) []Assignment {
	var s state
	for _, r := range records {
		s.apply(r)
	}
	return s.assignments(nil)
}

type state struct {
	values map[Key]string
	order  []Key
}

func (s *state) apply(r Record) {
	if s.values == nil {
		s.values = make(map[Key]string)
	}
	if r.Remove {
		delete(s.values, r.Key)
		return
	}
	if !s.seen(r.Key) {
		s.order = append(s.order, r.Key)
	}
	s.values[r.Key] = normalize(r.Value)
}

func (s *state) seen(k Key) bool {
	for _, o := range s.order {
		if o == k {
			return true
		}
	}
	return false
}

func (s *state) get(k Key) (string, bool) {
	v, ok := s.values[k]
	return v, ok
}

// assignments lists the live values, skipping keys in drop.
func (s *state) assignments(drop map[Key]bool) []Assignment {
	var out []Assignment
	for _, k := range s.order {
		v, ok := s.values[k]
		if !ok || drop[k] {
			continue
		}
		out = append(out, Assignment{Target: k.Target, Key: k.Option, Value: v})
	}
	return out
}

// normalize spells booleans in lower case so "True" and "true" compare
// equal.
func normalize(v string) string {
	if strings.EqualFold(v, "true") || strings.EqualFold(v, "false") {
		return strings.ToLower(v)
	}
	return v
}
