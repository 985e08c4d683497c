// Package main is the entry point for the shiplift CLI application.
// shiplift packages a pre-built static-site directory, resolves the target
// app and remote branch, and drives a hosting-platform deployment job.
package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/shiplift-dev/shiplift/cmd"
	"github.com/shiplift-dev/shiplift/internal/adapters/amplify"
	"github.com/shiplift-dev/shiplift/internal/adapters/archive"
	"github.com/shiplift-dev/shiplift/internal/adapters/git"
	logadapter "github.com/shiplift-dev/shiplift/internal/adapters/logger"
	"github.com/shiplift-dev/shiplift/internal/adapters/output"
	"github.com/shiplift-dev/shiplift/internal/adapters/prompt"
	"github.com/shiplift-dev/shiplift/internal/adapters/transfer"
	"github.com/shiplift-dev/shiplift/internal/domain"
	"github.com/shiplift-dev/shiplift/internal/infrastructure/config"
	"github.com/shiplift-dev/shiplift/internal/usecases"
)

func main() {
	// Create a single shared logger instance for the application
	zapLog := logger.NewZapLoggerFromConfig()
	adapter := logadapter.NewZapAdapter(zapLog)

	// Wire up production dependencies
	deps := &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return adapter
		},

		ConfigLoader: func(path string) (*domain.UserConfig, error) {
			return loadUserConfig(path, adapter)
		},

		ServiceFactory: func(ctx context.Context, profile string, _ cmd.Logger) (domain.DeploymentService, error) {
			return amplify.NewClient(ctx, profile, adapter)
		},

		OracleFactory: func(path string, _ cmd.Logger) domain.BranchOracle {
			return git.NewOracle(path, adapter)
		},

		PackagerFactory: func() domain.Packager {
			return archive.NewPackager()
		},

		UploaderFactory: func() domain.Uploader {
			return transfer.NewUploader()
		},

		PrompterFactory: func(in io.Reader, out io.Writer) domain.Prompter {
			return prompt.NewTerminal(in, out)
		},

		PresenterFactory: func(out io.Writer) domain.Presenter {
			return output.NewPresenterWithOutput(out)
		},

		ReconcilerFactory: func(
			service domain.DeploymentService,
			prompter domain.Prompter,
			_ cmd.Logger,
			out io.Writer,
		) domain.BranchResolver {
			return usecases.NewBranchReconciler(service, prompter, adapter, out)
		},

		DeployerFactory: func(
			packager domain.Packager,
			service domain.DeploymentService,
			uploader domain.Uploader,
			_ cmd.Logger,
		) domain.Deployer {
			return usecases.NewDeploymentOrchestrator(packager, service, uploader, adapter)
		},

		Workdir: os.Getwd,

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd.SetDefaultDependencies(deps)
	cmd.Execute()
}

// loadUserConfig loads the configuration file at path and resolves it for
// the detected username. A missing file is non-fatal and yields an empty
// configuration; a malformed file is an error.
func loadUserConfig(path string, log cmd.Logger) (*domain.UserConfig, error) {
	ctx := context.Background()
	username := config.DetectUsername()

	raw, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		log.Warn(ctx, "configuration file not found; continuing with empty configuration",
			map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		raw = &config.File{}
	}

	users := make([]string, 0, len(raw.Users))
	for _, u := range raw.Users {
		users = append(users, u.Name)
	}
	log.Info(ctx, "resolving configuration", map[string]interface{}{
		"username":         username,
		"configured_users": users,
	})

	return config.Resolve(raw, username), nil
}
