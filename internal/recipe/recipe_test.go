package recipe

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/deps"
	"github.com/goplus/hgpkg/internal/options"
	"github.com/goplus/hgpkg/internal/registry"
	"github.com/goplus/hgpkg/internal/toolchain"
	"github.com/goplus/hgpkg/recipes"
)

const minimal = `
name:    "demo"
fromVer: "1.0.0"
modules: [{name: "core", layer: "foundation"}]
`

func TestParseMinimal(t *testing.T) {
	r, err := Parse("demo.cue", []byte(minimal))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Name != "demo" || r.FromVer != "1.0.0" || len(r.Modules) != 1 {
		t.Errorf("Parse() = %+v", r)
	}
	if r.Modules[0].HeaderOnly || r.Modules[0].Stage != 0 {
		t.Errorf("module defaults = %+v", r.Modules[0])
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", `name: "demo`, "demo.cue"},
		{"no modules", `name: "demo", fromVer: "1.0.0", modules: []`, "modules"},
		{"bad layer", `name: "demo", fromVer: "1.0.0", modules: [{name: "a", layer: "core"}]`, "layer"},
		{"unknown field", minimal + `colour: "red"`, "colour"},
		{"bad visibility", minimal + `requires: [{ref: "fmt/10.0.0", visibility: "protected"}]`, "visibility"},
		{"bad ref", minimal + `requires: [{ref: "fmt"}]`, "ref"},
		{"negative stage", `name: "demo", fromVer: "1.0.0", modules: [{name: "a", layer: "utilities", stage: -1}]`, "stage"},
		{"bad fromVer", `name: "demo", fromVer: "1.x", modules: [{name: "a", layer: "utilities"}]`, "fromVer"},
		{"bad cppstd", minimal + `minCppStd: "twenty"`, "minCppStd"},
		{"bad stage", minimal + `rules: [{stage: "late", option: "x"}]`, "stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("demo.cue", []byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func revision(fromVer, module string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`
name:    "demo"
fromVer: "` + fromVer + `"
modules: [{name: "` + module + `", layer: "foundation"}]
`)}
}

func TestStoreSelect(t *testing.T) {
	store := NewStore(fstest.MapFS{
		"demo/demo_1.0.cue":   revision("1.0", "core"),
		"demo/demo_1.10.cue":  revision("1.10", "core2"),
		"demo/demo_1.2.0.cue": revision("1.2.0", "core12"),
		"demo/README.md":      {Data: []byte("not a recipe")},
	})

	tests := []struct {
		version string
		want    string
	}{
		{"1.0", "1.0"},
		{"1.1", "1.0"},
		{"1.2.0", "1.2.0"},
		{"1.9.9", "1.2.0"},
		{"1.10", "1.10"},
		{"2.0", "1.10"},
	}
	for _, tt := range tests {
		r, err := store.Select("demo", tt.version)
		if err != nil {
			t.Errorf("Select(%s) failed: %v", tt.version, err)
			continue
		}
		if r.FromVer != tt.want {
			t.Errorf("Select(%s) = %s, want %s", tt.version, r.FromVer, tt.want)
		}
	}

	if _, err := store.Select("demo", "0.9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select(0.9) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Select("other", "1.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select(other) error = %v, want ErrNotFound", err)
	}
}

func TestStoreRevisionErrors(t *testing.T) {
	tests := []struct {
		name string
		pkg  string
		fsys fstest.MapFS
	}{
		{"duplicate fromVer", "demo", fstest.MapFS{
			"demo/a.cue": revision("1.0", "a"),
			"demo/b.cue": revision("1.0", "b"),
		}},
		{"wrong name", "other", fstest.MapFS{
			"other/a.cue": revision("1.0", "a"),
		}},
		{"escaping name", "../demo", fstest.MapFS{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(tt.fsys).Revisions(tt.pkg); err == nil {
				t.Fatal("Revisions() succeeded, want error")
			}
		})
	}
}

func hobgoblin(t *testing.T) *Store {
	t.Helper()
	return NewStore(recipes.FS)
}

func TestEmbeddedHobgoblin(t *testing.T) {
	r, err := hobgoblin(t).Select("hobgoblin", "0.1.0")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	reg, err := Registry(r)
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	var libs []string
	for _, m := range reg.LinkOrder() {
		libs = append(libs, m.Library)
	}
	want := []string{
		"SPeMPE",
		"Hobgoblin.RmlUi",
		"Hobgoblin.Graphics",
		"Hobgoblin.ColDetect",
		"Hobgoblin.Window",
		"Hobgoblin.RigelNet",
		"Hobgoblin.QAO",
		"Hobgoblin.Input",
		"Hobgoblin.HGConfig",
		"Hobgoblin.ChipmunkPhysics",
		"Hobgoblin.Utility",
		"Hobgoblin.Logging",
		"Hobgoblin.HGExcept",
	}
	if !slices.Equal(libs, want) {
		t.Errorf("link order =\n%v\nwant\n%v", libs, want)
	}
	if got := len(reg.Layer(registry.Foundation)); got != 7 {
		t.Errorf("%d foundation modules, want 7", got)
	}

	std, ok, err := MinStandard(r)
	if err != nil || !ok || std != toolchain.Cpp20 {
		t.Errorf("MinStandard() = %v, %v, %v", std, ok, err)
	}
	if !reflect.DeepEqual(r.SystemLibs, map[string][]string{"Windows": {"DbgHelp"}}) {
		t.Errorf("SystemLibs = %v", r.SystemLibs)
	}
}

func TestEmbeddedHobgoblinRequirements(t *testing.T) {
	r, err := hobgoblin(t).Select("hobgoblin", "0.1.0")
	if err != nil {
		t.Fatal(err)
	}
	d, err := Declarator(r)
	if err != nil {
		t.Fatalf("Declarator failed: %v", err)
	}
	resolved, err := d.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	byName := make(map[string]deps.Resolved)
	for _, res := range resolved {
		byName[res.Name] = res
	}
	if len(byName) != 9 {
		t.Errorf("%d requirements, want 9", len(byName))
	}
	if res := byName["freetype"]; !res.Override || res.Direct || res.Version != "2.11.1" {
		t.Errorf("freetype = %+v, want a transitive pin", res)
	}
	if res := byName["sfml"]; res.Visibility != deps.Public || !res.Direct {
		t.Errorf("sfml = %+v", res)
	}
	if res := byName["ztcpp"]; res.Visibility != deps.Private || res.Version != "3.0.2@jbatnozic/stable" {
		t.Errorf("ztcpp = %+v", res)
	}
}

func TestEmbeddedHobgoblinOptions(t *testing.T) {
	r, err := hobgoblin(t).Select("hobgoblin", "0.1.0")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Cascader(r)
	if err != nil {
		t.Fatalf("Cascader failed: %v", err)
	}

	win, err := c.Cascade(options.Platform{OS: "Windows"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := options.SelfValues(win)["fPIC"]; ok {
		t.Errorf("fPIC present on Windows: %v", win)
	}

	linux, err := c.Cascade(options.Platform{OS: "Linux"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := options.SelfValues(linux)["fPIC"]; v != "true" {
		t.Errorf("fPIC = %q on Linux, want true", v)
	}
	if v := options.DependencyValues(linux, "ztcpp")["shared"]; v != "true" {
		t.Errorf("ztcpp:shared = %q, want true", v)
	}
}

func TestCascaderRejectsUnknownDependency(t *testing.T) {
	r, err := hobgoblin(t).Select("hobgoblin", "0.1.0")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Cascader(r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Cascade(options.Platform{OS: "Linux"}, map[string]string{"freetype:shared": "true"}); err != nil {
		t.Errorf("option on a pinned requirement rejected: %v", err)
	}
	_, err = c.Cascade(options.Platform{OS: "Linux"}, map[string]string{"sflm:shared": "true"})
	var oe *options.Error
	if !errors.As(err, &oe) {
		t.Errorf("Cascade() error = %v, want *options.Error", err)
	}

	r.Rules = append(r.Rules, formula.Rule{Stage: "force", Target: "boost", Option: "shared", Value: "false"})
	if _, err := Cascader(r); !errors.As(err, &oe) {
		t.Errorf("Cascader() error = %v, want *options.Error for a rule on boost", err)
	}
}
