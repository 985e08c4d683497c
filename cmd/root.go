// Package cmd provides the CLI commands for shiplift.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiplift-dev/shiplift/internal/domain"
	"github.com/shiplift-dev/shiplift/internal/usecases"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads the configuration file at path and resolves it
	// for the effective username.
	ConfigLoader func(path string) (*domain.UserConfig, error)

	// ServiceFactory creates the Deployment Service client for the given
	// credential profile.
	ServiceFactory func(ctx context.Context, profile string, log Logger) (domain.DeploymentService, error)

	// OracleFactory creates the version-control branch oracle for a path.
	OracleFactory func(path string, log Logger) domain.BranchOracle

	// PackagerFactory creates the artifact packager.
	PackagerFactory func() domain.Packager

	// UploaderFactory creates the artifact uploader.
	UploaderFactory func() domain.Uploader

	// PrompterFactory creates the interactive operator prompter.
	PrompterFactory func(in io.Reader, out io.Writer) domain.Prompter

	// PresenterFactory creates the operator output presenter.
	PresenterFactory func(out io.Writer) domain.Presenter

	// ReconcilerFactory creates the branch reconciler.
	ReconcilerFactory func(
		service domain.DeploymentService,
		prompter domain.Prompter,
		log Logger,
		out io.Writer,
	) domain.BranchResolver

	// DeployerFactory creates the deployment orchestrator.
	DeployerFactory func(
		packager domain.Packager,
		service domain.DeploymentService,
		uploader domain.Uploader,
		log Logger,
	) domain.Deployer

	// Workdir returns the current working directory.
	Workdir func() (string, error)

	// Stdin is the reader for interactive operator input.
	Stdin io.Reader

	// Stdout is the writer for results (job id, listings).
	Stdout io.Writer

	// Stderr is the writer for warnings, prompts, and diagnostics.
	Stderr io.Writer
}

// Command-line flags.
var (
	appName    string
	branchName string
	configPath string
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for shiplift.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shiplift",
		Short: "Deploy packaged static-site builds to the hosting platform",
		Long: `shiplift ships a pre-built static site directory to a hosting platform app.

It resolves which configured app and remote branch to target, packages the
build directory into a zip artifact, uploads it to a deployment slot, and
starts the deployment. Apps and per-user settings come from config.yaml;
the target branch is reconciled from the configured preference, the local
git branch, and interactive operator choice.

Examples:
  # Deploy the app detected from the current directory
  shiplift deploy

  # Deploy a named app to an explicit branch
  shiplift deploy --app site --branch main

  # List remote branches of an app
  shiplift list-branches --app site

  # Show all configured apps
  shiplift list-apps`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the configuration file")

	rootCmd.AddCommand(newDeployCmd(deps))
	rootCmd.AddCommand(newListBranchesCmd(deps))
	rootCmd.AddCommand(newListAppsCmd(deps))

	return rootCmd
}

// loadConfig loads and resolves the user configuration, surfacing the
// unknown-user fallback as an operator-visible warning.
func loadConfig(deps *Dependencies, stderr io.Writer) (*domain.UserConfig, error) {
	cfg, err := deps.ConfigLoader(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Fallback {
		fmt.Fprintf(stderr,
			"Warning: no configuration entry for user %q; using the first configured entry.\n",
			cfg.Username)
	}
	return cfg, nil
}

// resolveTarget selects the app to operate on from the --app flag or the
// working directory.
func resolveTarget(deps *Dependencies, cfg *domain.UserConfig) (*domain.ResolvedTarget, error) {
	cwd, err := deps.Workdir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	target, err := usecases.SelectApp(cfg, appName, cwd)
	if err != nil {
		return nil, err
	}
	if target.Entry.AppID == "" {
		return nil, fmt.Errorf("app %q has no app_id configured", target.Name)
	}
	return target, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdoutOf(deps *Dependencies) io.Writer {
	if deps.Stdout != nil {
		return deps.Stdout
	}
	return os.Stdout
}

func stderrOf(deps *Dependencies) io.Writer {
	if deps.Stderr != nil {
		return deps.Stderr
	}
	return os.Stderr
}

func stdinOf(deps *Dependencies) io.Reader {
	if deps.Stdin != nil {
		return deps.Stdin
	}
	return os.Stdin
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// errDepsNotConfigured is returned when a command runs without wiring.
var errDepsNotConfigured = errors.New("dependencies not configured")
