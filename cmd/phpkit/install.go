package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ekut/claude-code-php-toolkit/pkg/installer"
	"github.com/ekut/claude-code-php-toolkit/pkg/presenter"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the rule sets into your configuration directory",
	Long: `Install copies the toolkit's rule directories (rules/common and rules/php)
into your configuration directory.

The destination defaults to ~/.claude/rules and can be overridden with the
PHPKIT_RULES_DIR environment variable. Existing files are listed as conflicts
and then overwritten; the operation is idempotent and safe to re-run.

Positional arguments are ignored.`,
	// Extra arguments and unknown flags are tolerated and ignored; --help is
	// the only argument that changes behavior.
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, _ []string) error {
		var opts []installer.Option
		if source, _ := cmd.Flags().GetString("source"); source != "" {
			opts = append(opts, installer.WithSourceRoot(source))
		}

		inst, err := installer.NewInstaller(opts...)
		if err != nil {
			return errors.Wrap(err, "failed to initialize installer")
		}

		plan := inst.Plan()
		if len(plan.Conflicts) > 0 {
			presenter.Warning(fmt.Sprintf("%d existing file(s) will be overwritten:", len(plan.Conflicts)))
			for _, path := range plan.Conflicts {
				presenter.Info("  " + path)
			}
		}

		report, err := inst.Install(cmd.Context())
		if err != nil {
			return err
		}

		presenter.Section("Installed files")
		for _, path := range report.SortedFiles() {
			presenter.Info("  " + path)
		}
		presenter.Success(fmt.Sprintf("Installed %d file(s) to %s", len(report.FilesCopied), report.DestinationRoot))

		return nil
	},
}

func init() {
	installCmd.Flags().String("source", "", "Source checkout directory (defaults to the executable's directory)")
}
