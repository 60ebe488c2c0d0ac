package internal

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options name/version",
	Short: "Print the cascaded options of a package",
	Long: `Options folds recipe defaults, profile values and recipe rules for the
target platform and prints the resulting assignments, one per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	req, err := newRequest(args[0])
	if err != nil {
		return err
	}
	plan, err := newEngine(nil).Prepare(context.Background(), req)
	if err != nil {
		return err
	}
	for _, a := range plan.Assignments {
		fmt.Fprintln(cmd.OutOrStdout(), a)
	}
	return nil
}
