package internal

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goplus/hgpkg/internal/config"
	"github.com/goplus/hgpkg/internal/env"
)

var (
	configFile string

	cfg    *config.Config
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "hgpkg"})
)

var rootCmd = &cobra.Command{
	Use:   "hgpkg",
	Short: "hgpkg resolves and packages Hobgoblin builds",
	Long: `hgpkg reads package recipes, resolves their requirements, cascades build
options onto dependencies and assembles the output of a build into an
installable package.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: hgpkg.toml in . or the user config dir)")
	addProfileFlags(rootCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	opts := config.Options{File: configFile, Dirs: []string{"."}}
	if dir, err := env.ConfigDir(); err == nil {
		opts.Dirs = append(opts.Dirs, dir)
	}
	c, err := config.Load(opts)
	if err != nil {
		return err
	}
	cfg = c
	logger.SetLevel(cfg.Level())
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Fatal(err)
	}
}
