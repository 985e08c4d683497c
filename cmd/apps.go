package cmd

import (
	"github.com/spf13/cobra"
)

// newListAppsCmd creates the list-apps command. It needs no app resolution;
// it dumps every configured app for the effective user.
func newListAppsCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list-apps",
		Short: "Show all configured apps for the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListApps(cmd, deps)
		},
	}
}

func runListApps(cmd *cobra.Command, deps *Dependencies) error {
	if deps == nil {
		return errDepsNotConfigured
	}

	ctx := commandContext(cmd)
	log := deps.LoggerFactory()

	cfg, err := loadConfig(deps, stderrOf(deps))
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return err
	}

	return deps.PresenterFactory(stdoutOf(deps)).Apps(cfg.Apps)
}
