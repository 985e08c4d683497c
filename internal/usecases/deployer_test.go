package usecases

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// fakePackager writes an artifact file on Pack so cleanup can be observed.
type fakePackager struct {
	validateErr error
	packErr     error
	packedDir   string
}

func (p *fakePackager) Validate(_ string) error {
	return p.validateErr
}

func (p *fakePackager) Pack(dir, dest string) error {
	if p.packErr != nil {
		return p.packErr
	}
	p.packedDir = dir
	return os.WriteFile(dest, []byte("zip-bytes"), 0o644)
}

// fakeUploader records the upload and optionally fails.
type fakeUploader struct {
	err      error
	uploaded bool
	url      string
	path     string
}

func (u *fakeUploader) Upload(_ context.Context, url, path string) error {
	if u.err != nil {
		return u.err
	}
	u.uploaded = true
	u.url = url
	u.path = path
	return nil
}

// recordingService tracks which deployment calls were made.
type recordingService struct {
	fakeService
	createErr    error
	startErr     error
	createCalled bool
	startCalled  bool
}

func (s *recordingService) CreateDeployment(_ context.Context, appID, branch string) (*domain.DeploymentJob, error) {
	s.createCalled = true
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.DeploymentJob{
		AppID:     appID,
		Branch:    branch,
		JobID:     "job-42",
		UploadURL: "https://uploads.example.com/job-42",
	}, nil
}

func (s *recordingService) StartDeployment(_ context.Context, _, _, _ string) error {
	s.startCalled = true
	return s.startErr
}

func TestDeploy_FullSequence(t *testing.T) {
	t.Chdir(t.TempDir())
	packager := &fakePackager{}
	uploader := &fakeUploader{}
	service := &recordingService{}
	d := NewDeploymentOrchestrator(packager, service, uploader, &testLogger{})

	jobID, err := d.Deploy(context.Background(), "app123", "main", "./dist")

	require.NoError(t, err)
	assert.Equal(t, "job-42", jobID)
	assert.Equal(t, "./dist", packager.packedDir)
	assert.Equal(t, "https://uploads.example.com/job-42", uploader.url)
	assert.Equal(t, domain.ArtifactName, uploader.path)
	assert.True(t, service.startCalled)
	assert.NoFileExists(t, domain.ArtifactName)
}

func TestDeploy_MissingBuildDirectory(t *testing.T) {
	d := NewDeploymentOrchestrator(&fakePackager{}, &recordingService{}, &fakeUploader{}, &testLogger{})

	_, err := d.Deploy(context.Background(), "app123", "main", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingBuildDir)
}

func TestDeploy_EmptyArtifactAbortsBeforeNetwork(t *testing.T) {
	t.Chdir(t.TempDir())
	packager := &fakePackager{validateErr: domain.ErrEmptyArtifact}
	service := &recordingService{}
	d := NewDeploymentOrchestrator(packager, service, &fakeUploader{}, &testLogger{})

	_, err := d.Deploy(context.Background(), "app123", "main", "./dist")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyArtifact)
	assert.False(t, service.createCalled)
	assert.NoFileExists(t, domain.ArtifactName)
}

func TestDeploy_CreateFailureSkipsUpload(t *testing.T) {
	t.Chdir(t.TempDir())
	uploader := &fakeUploader{}
	service := &recordingService{
		createErr: &domain.ServiceError{Op: "create deployment", Err: errors.New("quota")},
	}
	d := NewDeploymentOrchestrator(&fakePackager{}, service, uploader, &testLogger{})

	_, err := d.Deploy(context.Background(), "app123", "main", "./dist")

	require.Error(t, err)
	assert.False(t, uploader.uploaded)
	// The artifact stays on disk for operator inspection.
	assert.FileExists(t, domain.ArtifactName)
}

func TestDeploy_UploadFailureLeavesArtifactAndSkipsStart(t *testing.T) {
	t.Chdir(t.TempDir())
	uploader := &fakeUploader{err: domain.ErrUploadFailed}
	service := &recordingService{}
	d := NewDeploymentOrchestrator(&fakePackager{}, service, uploader, &testLogger{})

	_, err := d.Deploy(context.Background(), "app123", "main", "./dist")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.False(t, service.startCalled)
	assert.FileExists(t, domain.ArtifactName)
}
