package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persn/CentralisedPackageConverter/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var revertCmd = &cobra.Command{
	Use:   "revert [root]",
	Short: "Flow manifest versions back into the project files",
	Long: `Read Directory.Packages.props under the given root (default "."),
re-apply each version to the matching PackageReference items, and delete
the manifest. References without a manifest entry are reported and left
unversioned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRevert,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	revertCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(revertCmd)
}

func runRevert(_ *cobra.Command, args []string) error {
	root := rootArg(args)

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if !assumeYes && !dryRun {
		ok, confirmErr := NewPrompter().Confirm(
			"Revert to per-project versions?",
			fmt.Sprintf("Project files under %s will be rewritten and the manifest deleted.", root),
		)
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			logger.Info("Aborted")
			return nil
		}
	}

	return injectRevertService().Execute(application.RevertOptions{
		RootDir:    root,
		DryRun:     dryRun,
		Verbose:    verbose,
		Extensions: cfg.Extensions,
	})
}
