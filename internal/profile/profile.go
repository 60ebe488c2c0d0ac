// Package profile reads build profiles: the target platform and the option
// values a user asks for.
package profile

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/goplus/hgpkg/internal/options"
)

// Profile is a decoded profile file:
//
//	[settings]
//	os = "Linux"
//	arch = "x86_64"
//	compiler = "gcc"
//	cppstd = "gnu20"
//	build_type = "Release"
//
//	[options]
//	shared = false
//	"sfml:audio" = true
type Profile struct {
	Settings Settings       `toml:"settings"`
	Options  map[string]any `toml:"options"`
}

// Settings describe the target platform.
type Settings struct {
	OS        string `toml:"os"`
	Arch      string `toml:"arch"`
	Compiler  string `toml:"compiler"`
	CppStd    string `toml:"cppstd"`
	BuildType string `toml:"build_type"`
}

// Parse decodes a TOML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	for k, v := range p.Options {
		switch v.(type) {
		case string, bool, int64, float64:
		default:
			return nil, fmt.Errorf("option %s: unsupported value %v", k, v)
		}
	}
	return &p, nil
}

// Load reads and decodes the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Host returns a profile for the machine running hgpkg.
func Host() *Profile {
	return &Profile{Settings: Settings{
		OS:        hostOS(runtime.GOOS),
		Arch:      hostArch(runtime.GOARCH),
		BuildType: "Release",
	}}
}

func hostOS(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	}
	return goos
}

func hostArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	}
	return goarch
}

// Platform returns the target platform.
func (p *Profile) Platform() options.Platform {
	s := p.Settings
	return options.Platform{
		OS:        s.OS,
		Arch:      s.Arch,
		Compiler:  s.Compiler,
		CppStd:    s.CppStd,
		BuildType: s.BuildType,
	}
}

// Values returns the options as strings, keyed "option" or
// "dependency:option".
func (p *Profile) Values() map[string]string {
	out := make(map[string]string, len(p.Options))
	for k, v := range p.Options {
		switch v := v.(type) {
		case string:
			out[k] = v
		case bool:
			out[k] = strconv.FormatBool(v)
		case int64:
			out[k] = strconv.FormatInt(v, 10)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Set records an option value, replacing the profile's.
func (p *Profile) Set(key, value string) {
	if p.Options == nil {
		p.Options = make(map[string]any)
	}
	p.Options[key] = value
}

// Keys returns the option keys in sorted order.
func (p *Profile) Keys() []string {
	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
