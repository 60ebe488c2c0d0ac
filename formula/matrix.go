package formula

import (
	"sort"
	"strings"
)

// Matrix describes build configurations. Require holds platform properties
// (os, arch, compiler...), Options the package's own option values.
type Matrix struct {
	Require map[string][]string `json:"require,omitempty"`
	Options map[string][]string `json:"options,omitempty"`
}

// Single returns the matrix holding exactly one configuration. Option
// values are spelled key=value, since boolean options share their values.
func Single(require, options map[string]string) Matrix {
	wrap := func(kv map[string]string, spell func(k, v string) string) map[string][]string {
		if len(kv) == 0 {
			return nil
		}
		out := make(map[string][]string, len(kv))
		for k, v := range kv {
			out[k] = []string{spell(k, v)}
		}
		return out
	}
	return Matrix{
		Require: wrap(require, func(_, v string) string { return v }),
		Options: wrap(options, func(k, v string) string { return k + "=" + v }),
	}
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically, and combinations are built layer by layer.
// Require fields are joined with "-", then combined with options using "|".
func (m *Matrix) Combinations() []string {
	requireCombos := cartesian(m.Require)
	optionsCombos := cartesian(m.Options)

	if len(requireCombos) == 0 {
		return optionsCombos
	}
	if len(optionsCombos) == 0 {
		return requireCombos
	}

	result := make([]string, 0, len(requireCombos)*len(optionsCombos))
	for _, req := range requireCombos {
		for _, opt := range optionsCombos {
			result = append(result, req+"|"+opt)
		}
	}
	return result
}

func cartesian(kvs map[string][]string) []string {
	if len(kvs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, len(kvs[keys[0]]))
	copy(result, kvs[keys[0]])
	for _, k := range keys[1:] {
		values := kvs[k]
		next := make([]string, 0, len(result)*len(values))
		for _, prev := range result {
			for _, v := range values {
				next = append(next, prev+"-"+v)
			}
		}
		result = next
	}
	return result
}

// String returns the first combination, which names the configuration of a
// single-valued matrix. It is safe to use in file names.
func (m Matrix) String() string {
	combos := m.Combinations()
	if len(combos) == 0 {
		return "default"
	}
	return strings.NewReplacer("|", "_", "/", "_", "\\", "_", " ", "").Replace(combos[0])
}
