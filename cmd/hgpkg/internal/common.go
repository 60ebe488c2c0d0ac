package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/build"
	"github.com/goplus/hgpkg/internal/engine"
	"github.com/goplus/hgpkg/internal/profile"
	"github.com/goplus/hgpkg/internal/recipe"
	"github.com/goplus/hgpkg/mod/module"
	"github.com/goplus/hgpkg/recipes"
)

var (
	profileFile   string
	optionFlags   []string
	osFlag        string
	cppStdFlag    string
	buildTypeFlag string
)

func addProfileFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&profileFile, "profile", "p", "", "Build profile (default: the host platform)")
	flags.StringArrayVarP(&optionFlags, "option", "o", nil, "Option override as key=value or dependency:key=value")
	flags.StringVar(&osFlag, "os", "", "Target operating system")
	flags.StringVar(&cppStdFlag, "cppstd", "", "C++ standard of the toolchain, e.g. gnu20")
	flags.StringVar(&buildTypeFlag, "build-type", "", "Build type, e.g. Release")
}

// parsePackageArg parses a "name/version" argument.
func parsePackageArg(arg string) (module.Version, error) {
	ref, err := module.ParseRef(arg)
	if err != nil {
		return module.Version{}, err
	}
	if ref.User != "" {
		return module.Version{}, fmt.Errorf("%s: user/channel is not supported for packages built here", arg)
	}
	return ref.Version, nil
}

// parseOption splits a key=value flag.
func parseOption(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid option %q, want key=value", s)
	}
	return key, strings.TrimSpace(value), nil
}

// loadProfile returns the profile selected by the flags, with command
// line settings and options applied on top.
func loadProfile() (*profile.Profile, error) {
	p := profile.Host()
	if profileFile != "" {
		var err error
		if p, err = profile.Load(profileFile); err != nil {
			return nil, err
		}
	}
	if osFlag != "" {
		p.Settings.OS = osFlag
	}
	if cppStdFlag != "" {
		p.Settings.CppStd = cppStdFlag
	}
	if buildTypeFlag != "" {
		p.Settings.BuildType = buildTypeFlag
	}
	for _, o := range optionFlags {
		k, v, err := parseOption(o)
		if err != nil {
			return nil, err
		}
		p.Set(k, v)
	}
	return p, nil
}

func newStore() *recipe.Store {
	if cfg != nil && cfg.RecipeDir != "" {
		return recipe.NewStore(os.DirFS(cfg.RecipeDir))
	}
	return recipe.NewStore(recipes.FS)
}

func newEngine(invoker build.Invoker) *engine.Engine {
	return engine.NewEngine(engine.Config{
		Store:   newStore(),
		Invoker: invoker,
		Logger:  logger,
	})
}

// newRequest builds the engine request for the package argument.
func newRequest(arg string) (engine.Request, error) {
	pkg, err := parsePackageArg(arg)
	if err != nil {
		return engine.Request{}, err
	}
	p, err := loadProfile()
	if err != nil {
		return engine.Request{}, err
	}
	return engine.Request{
		Package:  pkg,
		Platform: p.Platform(),
		Options:  p.Values(),
	}, nil
}
