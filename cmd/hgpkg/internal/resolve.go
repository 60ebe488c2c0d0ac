package internal

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/engine"
)

var resolveLock string

var resolveCmd = &cobra.Command{
	Use:   "resolve name/version",
	Short: "Resolve the requirements of a package",
	Long:  `Resolve prints the direct requirements of a package and the transitive graph they pull in.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveLock, "lock", "", "Record the resolved graph in this versions.json")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	req, err := newRequest(args[0])
	if err != nil {
		return err
	}
	plan, err := newEngine(nil).Prepare(context.Background(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, n := range plan.Graph {
		vis := "private"
		if n.Public {
			vis = "public"
		}
		via := ""
		if n.RequiredBy != "" {
			via = " (via " + n.RequiredBy + ")"
		}
		fmt.Fprintf(out, "%s %s%s\n", n.Version, vis, via)
	}
	for _, r := range plan.Requirements {
		if r.Override {
			fmt.Fprintf(out, "override %s\n", r)
		}
	}

	if resolveLock != "" {
		if err := engine.WriteLock(resolveLock, plan); err != nil {
			return fmt.Errorf("failed to write %s: %w", resolveLock, err)
		}
	}
	return nil
}
