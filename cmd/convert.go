package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persn/CentralisedPackageConverter/application"
	"github.com/persn/CentralisedPackageConverter/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	assumeYes bool
	semver    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var convertCmd = &cobra.Command{
	Use:   "convert [root]",
	Short: "Move every package version into the central manifest",
	Long: `Rewrite all project files under the given root (default ".") so their
PackageReference items carry no Version attribute, then write one
Directory.Packages.props holding the merged versions.

Trees still managed by Paket are migrated first: versions come from
paket.lock, references are injected from each paket.references file, and
the Paket artifacts are deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	convertCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	convertCmd.Flags().BoolVar(&semver, "semver", false, "Resolve version conflicts semantically (highest wins)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	root := rootArg(args)

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if !assumeYes && !dryRun {
		ok, confirmErr := NewPrompter().Confirm(
			"Centralize package versions?",
			fmt.Sprintf("Project files under %s will be rewritten in place.", root),
		)
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			logger.Info("Aborted")
			return nil
		}
	}

	return injectConvertService().Execute(application.ConvertOptions{
		RootDir:         root,
		DryRun:          dryRun,
		Verbose:         verbose,
		Semver:          semver || cfg.Semver(),
		Extensions:      cfg.Extensions,
		ExcludePackages: cfg.ExcludePackages,
	})
}

func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// loadConfig resolves the configuration: an explicit --config path is
// required to exist, a discovered file is optional.
func loadConfig(root string) (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfigFile(root)
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	logger.Infof("Using config file: %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
