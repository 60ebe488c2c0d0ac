package internal

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/recipe"
)

var checkCmd = &cobra.Command{
	Use:   "check name/version",
	Short: "Check that a package can be built",
	Long: `Check validates the recipe, the requirements and the toolchain of the
selected profile without running a build.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	req, err := newRequest(args[0])
	if err != nil {
		return err
	}
	plan, err := newEngine(nil).Prepare(context.Background(), req)
	if err != nil {
		return err
	}
	std := "any C++ standard"
	if minStd, ok, _ := recipe.MinStandard(plan.Recipe); ok {
		std = minStd.String() + " or newer"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d modules, %d requirements, %s)\n",
		req.Package, len(plan.Registry.All()), len(plan.Graph), std)
	return nil
}
