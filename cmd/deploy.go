package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeployCmd creates the deploy command.
func newDeployCmd(deps *Dependencies) *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Package a build directory and deploy it to a remote branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, deps)
		},
	}

	deployCmd.Flags().StringVar(&appName, "app", "",
		"Name of the configured app (default: detect from working directory)")
	deployCmd.Flags().StringVar(&branchName, "branch", "",
		"Branch to deploy to (default: the app's default_branch)")

	return deployCmd
}

// runDeploy executes the full deploy sequence with injected dependencies.
func runDeploy(cmd *cobra.Command, deps *Dependencies) error {
	if deps == nil {
		return errDepsNotConfigured
	}

	ctx := commandContext(cmd)
	stdout := stdoutOf(deps)
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

	log.Info(ctx, "selected app", map[string]interface{}{
		"app":       target.Name,
		"app_id":    target.Entry.AppID,
		"repo_root": target.Entry.RepoRoot,
		"build_dir": target.Entry.BuildDirectory,
	})

	service, err := deps.ServiceFactory(ctx, cfg.AWSProfile, log)
	if err != nil {
		log.Error(ctx, "failed to create deployment service client", err, map[string]interface{}{
			"profile": cfg.AWSProfile,
		})
		return fmt.Errorf("deployment service error: %w", err)
	}

	// Branch preference: explicit flag first, then the app's configured
	// default.
	configured := branchName
	if configured == "" {
		configured = target.Entry.DefaultBranch
	}

	cwd, err := deps.Workdir()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	hint, ok := deps.OracleFactory(cwd, log).CurrentBranch(ctx)
	if !ok {
		hint = ""
	}

	prompter := deps.PrompterFactory(stdinOf(deps), stderr)
	reconciler := deps.ReconcilerFactory(service, prompter, log, stderr)
	decision, err := reconciler.Reconcile(ctx, target.Entry.AppID, configured, hint)
	if err != nil {
		log.Error(ctx, "failed to reconcile branch", err, map[string]interface{}{
			"app_id":     target.Entry.AppID,
			"configured": configured,
			"hint":       hint,
		})
		return err
	}

	deployer := deps.DeployerFactory(deps.PackagerFactory(), service, deps.UploaderFactory(), log)
	jobID, err := deployer.Deploy(ctx, target.Entry.AppID, decision.Name, target.Entry.BuildDirectory)
	if err != nil {
		log.Error(ctx, "deployment failed", err, map[string]interface{}{
			"app_id": target.Entry.AppID,
			"branch": decision.Name,
		})
		return err
	}

	log.Info(ctx, "deployment started", map[string]interface{}{
		"app":    target.Name,
		"app_id": target.Entry.AppID,
		"branch": decision.Name,
		"job_id": jobID,
	})

	return deps.PresenterFactory(stdout).JobID(jobID)
}
