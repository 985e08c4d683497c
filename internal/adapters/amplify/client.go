// Package amplify implements domain.DeploymentService against the AWS
// Amplify Hosting API using aws-sdk-go-v2.
package amplify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsamplify "github.com/aws/aws-sdk-go-v2/service/amplify"
	"github.com/aws/aws-sdk-go-v2/service/amplify/types"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// Logger defines the logging interface for the amplify adapter.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// api is the subset of the Amplify client used by this adapter, extracted so
// tests can substitute a fake without AWS credentials.
type api interface {
	CreateDeployment(ctx context.Context, in *awsamplify.CreateDeploymentInput,
		opts ...func(*awsamplify.Options)) (*awsamplify.CreateDeploymentOutput, error)
	StartDeployment(ctx context.Context, in *awsamplify.StartDeploymentInput,
		opts ...func(*awsamplify.Options)) (*awsamplify.StartDeploymentOutput, error)
	ListBranches(ctx context.Context, in *awsamplify.ListBranchesInput,
		opts ...func(*awsamplify.Options)) (*awsamplify.ListBranchesOutput, error)
	GetBranch(ctx context.Context, in *awsamplify.GetBranchInput,
		opts ...func(*awsamplify.Options)) (*awsamplify.GetBranchOutput, error)
	CreateBranch(ctx context.Context, in *awsamplify.CreateBranchInput,
		opts ...func(*awsamplify.Options)) (*awsamplify.CreateBranchOutput, error)
}

// Client wraps the Amplify API as a domain.DeploymentService. It performs no
// retries of its own; error handling policy belongs to the callers.
type Client struct {
	api    api
	logger Logger
}

// NewClient creates a Client authenticated via the AWS shared configuration.
// The credential profile is explicit constructor input rather than ambient
// process environment; an empty profile uses the SDK default chain.
func NewClient(ctx context.Context, profile string, log Logger) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Client{
		api:    awsamplify.NewFromConfig(cfg),
		logger: log,
	}, nil
}

// newClientWithAPI wires a Client over an arbitrary API implementation.
func newClientWithAPI(a api, log Logger) *Client {
	return &Client{api: a, logger: log}
}

// CreateDeployment requests a deployment slot and returns the issued job id
// and single-use artifact upload URL.
func (c *Client) CreateDeployment(ctx context.Context, appID, branch string) (*domain.DeploymentJob, error) {
	out, err := c.api.CreateDeployment(ctx, &awsamplify.CreateDeploymentInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
	})
	if err != nil {
		return nil, &domain.ServiceError{Op: "create deployment", Err: err}
	}

	job := &domain.DeploymentJob{
		AppID:     appID,
		Branch:    branch,
		JobID:     aws.ToString(out.JobId),
		UploadURL: aws.ToString(out.ZipUploadUrl),
	}
	c.logger.Debug(ctx, "created deployment slot", map[string]interface{}{
		"app_id": appID,
		"branch": branch,
		"job_id": job.JobID,
	})
	return job, nil
}

// StartDeployment triggers the deployment for an uploaded job.
func (c *Client) StartDeployment(ctx context.Context, appID, branch, jobID string) error {
	_, err := c.api.StartDeployment(ctx, &awsamplify.StartDeploymentInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
		JobId:      aws.String(jobID),
	})
	if err != nil {
		return &domain.ServiceError{Op: "start deployment", Err: err}
	}
	return nil
}

// ListBranches returns all deployment branches of the app.
func (c *Client) ListBranches(ctx context.Context, appID string) ([]domain.BranchInfo, error) {
	out, err := c.api.ListBranches(ctx, &awsamplify.ListBranchesInput{
		AppId: aws.String(appID),
	})
	if err != nil {
		return nil, &domain.ServiceError{Op: "list branches", Err: err}
	}

	branches := make([]domain.BranchInfo, 0, len(out.Branches))
	for _, b := range out.Branches {
		branches = append(branches, branchInfo(&b))
	}
	return branches, nil
}

// GetBranch returns the named branch, mapping the platform's not-found
// condition to domain.ErrBranchNotFound.
func (c *Client) GetBranch(ctx context.Context, appID, branch string) (*domain.BranchInfo, error) {
	out, err := c.api.GetBranch(ctx, &awsamplify.GetBranchInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
	})
	if err != nil {
		var notFound *types.NotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, branch)
		}
		return nil, &domain.ServiceError{Op: "get branch", Err: err}
	}

	info := branchInfo(out.Branch)
	return &info, nil
}

// CreateBranch registers a new deployment branch on the platform.
func (c *Client) CreateBranch(ctx context.Context, appID, branch string) error {
	_, err := c.api.CreateBranch(ctx, &awsamplify.CreateBranchInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
	})
	if err != nil {
		return &domain.ServiceError{Op: "create branch", Err: err}
	}
	return nil
}

func branchInfo(b *types.Branch) domain.BranchInfo {
	if b == nil {
		return domain.BranchInfo{}
	}
	return domain.BranchInfo{
		Name:        aws.ToString(b.BranchName),
		DisplayName: aws.ToString(b.DisplayName),
		Stage:       string(b.Stage),
	}
}
