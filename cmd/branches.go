package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListBranchesCmd creates the list-branches command.
func newListBranchesCmd(deps *Dependencies) *cobra.Command {
	branchesCmd := &cobra.Command{
		Use:   "list-branches",
		Short: "List the remote deployment branches of an app",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListBranches(cmd, deps)
		},
	}

	branchesCmd.Flags().StringVar(&appName, "app", "",
		"Name of the configured app (default: detect from working directory)")

	return branchesCmd
}

func runListBranches(cmd *cobra.Command, deps *Dependencies) error {
	if deps == nil {
		return errDepsNotConfigured
	}

	ctx := commandContext(cmd)
	stderr := stderrOf(deps)
	log := deps.LoggerFactory()

	cfg, err := loadConfig(deps, stderr)
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return err
	}

	target, err := resolveTarget(deps, cfg)
	if err != nil {
		log.Error(ctx, "failed to resolve app", err, nil)
		return err
	}

	service, err := deps.ServiceFactory(ctx, cfg.AWSProfile, log)
	if err != nil {
		log.Error(ctx, "failed to create deployment service client", err, nil)
		return fmt.Errorf("deployment service error: %w", err)
	}

	branches, err := service.ListBranches(ctx, target.Entry.AppID)
	if err != nil {
		log.Error(ctx, "failed to list branches", err, map[string]interface{}{
			"app_id": target.Entry.AppID,
		})
		return err
	}

	return deps.PresenterFactory(stdoutOf(deps)).Branches(target.Name, branches)
}
