package usecases

import (
	"context"
	"fmt"
	"os"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// DeploymentOrchestrator drives a full deployment attempt:
// validate → package → create slot → upload → start → clean up.
// Any step's failure aborts the remaining steps; the artifact file is only
// removed after a successful start, otherwise it is left on disk for
// inspection.
type DeploymentOrchestrator struct {
	packager domain.Packager
	service  domain.DeploymentService
	uploader domain.Uploader
	logger   Logger
}

// NewDeploymentOrchestrator creates a DeploymentOrchestrator with the given
// collaborators.
func NewDeploymentOrchestrator(
	packager domain.Packager,
	service domain.DeploymentService,
	uploader domain.Uploader,
	log Logger,
) *DeploymentOrchestrator {
	return &DeploymentOrchestrator{
		packager: packager,
		service:  service,
		uploader: uploader,
		logger:   log,
	}
}

// Deploy packages buildDir into the fixed-name artifact, requests a
// deployment slot for appID/branch, uploads the artifact, starts the
// deployment, and removes the artifact. Returns the service-issued job id.
func (d *DeploymentOrchestrator) Deploy(
	ctx context.Context,
	appID, branch, buildDir string,
) (string, error) {
	if buildDir == "" {
		return "", domain.ErrMissingBuildDir
	}

	if err := d.packager.Validate(buildDir); err != nil {
		return "", err
	}

	if err := d.packager.Pack(buildDir, domain.ArtifactName); err != nil {
		return "", err
	}
	d.logger.Info(ctx, "packaged build directory", map[string]interface{}{
		"build_dir": buildDir,
		"artifact":  domain.ArtifactName,
	})

	job, err := d.service.CreateDeployment(ctx, appID, branch)
	if err != nil {
		return "", err
	}
	d.logger.Info(ctx, "created deployment", map[string]interface{}{
		"app_id": appID,
		"branch": branch,
		"job_id": job.JobID,
	})

	if err := d.uploader.Upload(ctx, job.UploadURL, domain.ArtifactName); err != nil {
		return "", err
	}
	d.logger.Info(ctx, "uploaded artifact", map[string]interface{}{
		"job_id":   job.JobID,
		"artifact": domain.ArtifactName,
	})

	if err := d.service.StartDeployment(ctx, appID, branch, job.JobID); err != nil {
		return "", err
	}
	d.logger.Info(ctx, "started deployment", map[string]interface{}{
		"app_id": appID,
		"branch": branch,
		"job_id": job.JobID,
	})

	if err := os.Remove(domain.ArtifactName); err != nil {
		return "", fmt.Errorf("deployment %s started but artifact cleanup failed: %w", job.JobID, err)
	}

	return job.JobID, nil
}
