// Package domain defines the core business entities and interfaces for shiplift.
// This package contains no external dependencies and represents the innermost
// layer of the application.
package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors for configuration, packaging, and deployment.
var (
	// ErrConfigMalformed indicates the configuration file exists but could
	// not be parsed. Always fatal; a broken config must never be silently
	// replaced by an empty one.
	ErrConfigMalformed = errors.New("configuration file is malformed")

	// ErrAppNotResolved indicates no app could be selected, either because
	// an explicit name is unknown or because no configured repo root
	// contains the working directory.
	ErrAppNotResolved = errors.New("could not resolve an app to operate on")

	// ErrInvalidDirectory indicates the build directory path does not
	// refer to a directory.
	ErrInvalidDirectory = errors.New("build directory is not a valid directory")

	// ErrEmptyArtifact indicates the build directory holds no deployable
	// content.
	ErrEmptyArtifact = errors.New("build directory contains no deployable files")

	// ErrMissingBuildDir indicates the selected app has no build_directory
	// configured, so there is nothing to package.
	ErrMissingBuildDir = errors.New("no build directory configured for app")

	// ErrBranchNotFound indicates the requested branch does not exist on
	// the remote platform.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrUploadFailed indicates the artifact transfer to the pre-signed
	// URL did not return a success status.
	ErrUploadFailed = errors.New("artifact upload failed")
)

// ServiceError wraps an error returned by the remote Deployment Service.
// Op names the failed operation. The service is never retried here; callers
// decide whether the failure is fatal.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("deployment service %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// DeploymentService abstracts the remote hosting platform's deployment API.
// Every method may fail with a *ServiceError carrying the remote payload.
type DeploymentService interface {
	// CreateDeployment requests a deployment slot for the branch and
	// returns the issued job id and single-use upload URL.
	CreateDeployment(ctx context.Context, appID, branch string) (*DeploymentJob, error)

	// StartDeployment triggers the deployment for a previously created
	// job whose artifact has been uploaded.
	StartDeployment(ctx context.Context, appID, branch, jobID string) error

	// ListBranches returns all deployment branches of the app.
	ListBranches(ctx context.Context, appID string) ([]BranchInfo, error)

	// GetBranch returns the named branch, or an error wrapping
	// ErrBranchNotFound if the platform does not know it.
	GetBranch(ctx context.Context, appID, branch string) (*BranchInfo, error)

	// CreateBranch registers a new deployment branch on the platform.
	CreateBranch(ctx context.Context, appID, branch string) error
}

// BranchOracle supplies the current local version-control branch, if any.
type BranchOracle interface {
	// CurrentBranch returns the active branch name. ok is false when the
	// working directory is not inside a repository or HEAD is detached;
	// neither case is an error, just the absence of a hint.
	CurrentBranch(ctx context.Context) (name string, ok bool)
}

// Packager validates and archives a build directory.
type Packager interface {
	// Validate checks that dir is a directory holding deployable content.
	Validate(dir string) error

	// Pack archives every regular file under dir into a zip at dest,
	// entry names relative to dir. A failure leaves no file at dest.
	Pack(dir, dest string) error
}

// Uploader ships an artifact file to a pre-signed URL.
type Uploader interface {
	// Upload PUTs the file at path to url. Any non-2xx response is an
	// error wrapping ErrUploadFailed. Upload URLs are single-use; there
	// is no retry.
	Upload(ctx context.Context, url, path string) error
}

// Prompter gathers interactive operator input.
type Prompter interface {
	// Confirm asks a yes/no question and reports whether the operator
	// answered yes.
	Confirm(msg string) (bool, error)

	// Ask prompts for a free-form line of input.
	Ask(msg string) (string, error)
}

// BranchResolver decides which remote branch receives a deployment.
type BranchResolver interface {
	// Reconcile resolves a branch from the configured preference and the
	// version-control hint, consulting the operator when neither settles
	// it. The returned branch always exists remotely.
	Reconcile(ctx context.Context, appID, configured, hint string) (*BranchDecision, error)
}

// Deployer drives a full deployment attempt for an already-resolved target.
type Deployer interface {
	// Deploy packages buildDir, uploads it, and starts the deployment,
	// returning the service-issued job id.
	Deploy(ctx context.Context, appID, branch, buildDir string) (string, error)
}

// Presenter writes operator-facing results to an output destination.
type Presenter interface {
	// JobID writes the started deployment's job id.
	JobID(id string) error

	// Branches writes the remote branch listing for an app.
	Branches(appName string, branches []BranchInfo) error

	// Apps writes the configured app listing.
	Apps(apps AppList) error
}
