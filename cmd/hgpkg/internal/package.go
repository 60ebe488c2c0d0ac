package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/build"
	"github.com/goplus/hgpkg/internal/env"
	"github.com/goplus/hgpkg/internal/install"
)

var (
	packageSource  string
	packageOutput  string
	packageVerbose bool
)

var packageCmd = &cobra.Command{
	Use:   "package name/version",
	Short: "Build a package and assemble its manifest",
	Long: `Package builds the package sources with CMake, classifies the produced
binaries by module and prints the package manifest. With --output the
manifest's files are installed into a directory or a .zip archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().StringVarP(&packageSource, "source", "s", ".", "Package source directory")
	packageCmd.Flags().StringVar(&packageOutput, "output", "", "Install into this directory or .zip file")
	packageCmd.Flags().BoolVarP(&packageVerbose, "verbose", "v", false, "Enable verbose build output")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	req, err := newRequest(args[0])
	if err != nil {
		return err
	}
	if req.SourceDir, err = filepath.Abs(packageSource); err != nil {
		return fmt.Errorf("failed to resolve source dir: %w", err)
	}
	// The install prefix written into the pkg-config file must be absolute.
	if packageOutput != "" {
		if packageOutput, err = filepath.Abs(packageOutput); err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
	}

	buildDir, err := env.BuildDir(cfg.WorkDir)
	if err != nil {
		return fmt.Errorf("failed to create build dir: %w", err)
	}
	builder := build.NewBuilder(buildDir, cfg.Generator, logger)
	if !packageVerbose {
		builder.SetOutput(io.Discard)
	}

	res, err := newEngine(builder).Run(context.Background(), req)
	if err != nil {
		return err
	}
	if err := res.Manifest.Encode(cmd.OutOrStdout(), cfg.ManifestFormat); err != nil {
		return err
	}
	if packageOutput != "" {
		if err := install.Install(res.Manifest, packageOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "installed %s to %s\n", req.Package, packageOutput)
	}
	return nil
}
