package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "centralise",
	Short: "Centralize NuGet package versions across an MSBuild tree",
	Long: `A CLI tool that rewrites a multi-project MSBuild tree so every package
version lives in a single Directory.Packages.props manifest.

The convert command strips Version attributes from PackageReference items,
migrates legacy Paket artifacts along the way, and writes the central
manifest. The revert command flows the versions back into each project and
deletes the manifest again.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .centralise.yaml configuration file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
