package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/recipe"
)

var showCmd = &cobra.Command{
	Use:   "show name/version",
	Short: "Show the modules of a package",
	Long:  `Show prints the modules of a package in link order, most dependent first. Header-only modules are listed last.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	pkg, err := parsePackageArg(args[0])
	if err != nil {
		return err
	}
	r, err := newStore().Select(pkg.Path, pkg.Version)
	if err != nil {
		return err
	}
	reg, err := recipe.Registry(r)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range reg.LinkOrder() {
		fmt.Fprintf(out, "%-10s %-24s %s\n", m.Layer, m.Name, m.Library)
	}
	for _, m := range reg.All() {
		if m.HeaderOnly {
			fmt.Fprintf(out, "%-10s %-24s (header-only)\n", m.Layer, m.Name)
		}
	}
	return nil
}
