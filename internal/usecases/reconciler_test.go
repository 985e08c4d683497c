package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// testLogger is a minimal logger for testing that doesn't output anything.
type testLogger struct{}

func (l *testLogger) Info(_ context.Context, _ string, _ map[string]interface{})           {}
func (l *testLogger) Debug(_ context.Context, _ string, _ map[string]interface{})          {}
func (l *testLogger) Warn(_ context.Context, _ string, _ map[string]interface{})           {}
func (l *testLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// fakeService implements domain.DeploymentService against an in-memory
// branch set.
type fakeService struct {
	existing  map[string]bool
	created   []string
	createErr error
	getErr    error
	listCalls int
	getCalls  int
}

func newFakeService(branches ...string) *fakeService {
	existing := make(map[string]bool, len(branches))
	for _, b := range branches {
		existing[b] = true
	}
	return &fakeService{existing: existing}
}

func (s *fakeService) CreateDeployment(_ context.Context, appID, branch string) (*domain.DeploymentJob, error) {
	return &domain.DeploymentJob{AppID: appID, Branch: branch, JobID: "job-1"}, nil
}

func (s *fakeService) StartDeployment(_ context.Context, _, _, _ string) error {
	return nil
}

func (s *fakeService) ListBranches(_ context.Context, _ string) ([]domain.BranchInfo, error) {
	s.listCalls++
	var branches []domain.BranchInfo
	for name := range s.existing {
		branches = append(branches, domain.BranchInfo{Name: name})
	}
	return branches, nil
}

func (s *fakeService) GetBranch(_ context.Context, _, branch string) (*domain.BranchInfo, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.existing[branch] {
		return &domain.BranchInfo{Name: branch}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, branch)
}

func (s *fakeService) CreateBranch(_ context.Context, _, branch string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, branch)
	s.existing[branch] = true
	return nil
}

// scriptedPrompter replays canned operator answers.
type scriptedPrompter struct {
	confirms []bool
	answers  []string
}

func (p *scriptedPrompter) Confirm(_ string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, io.EOF
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptedPrompter) Ask(_ string) (string, error) {
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func newReconciler(service *fakeService, prompter *scriptedPrompter) (*BranchReconciler, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewBranchReconciler(service, prompter, &testLogger{}, out), out
}

func TestReconcile_ConfiguredBranchExists(t *testing.T) {
	service := newFakeService("main", "develop")
	r, _ := newReconciler(service, &scriptedPrompter{})

	decision, err := r.Reconcile(context.Background(), "app123", "main", "feature-x")

	require.NoError(t, err)
	assert.Equal(t, "main", decision.Name)
	assert.False(t, decision.Created)
	// Resolution is deterministic: only the configured branch is checked,
	// the hint and the operator are never consulted.
	assert.Equal(t, 1, service.getCalls)
	assert.Zero(t, service.listCalls)
}

func TestReconcile_ConfiguredAbsentFallsThroughToHint(t *testing.T) {
	service := newFakeService("feature-x")
	r, out := newReconciler(service, &scriptedPrompter{})

	decision, err := r.Reconcile(context.Background(), "app123", "main", "feature-x")

	require.NoError(t, err)
	assert.Equal(t, "feature-x", decision.Name)
	assert.Contains(t, out.String(), `configured branch "main" does not exist`)
}

func TestReconcile_HintAbsentOperatorCreates(t *testing.T) {
	service := newFakeService("main")
	prompter := &scriptedPrompter{confirms: []bool{true}}
	r, out := newReconciler(service, prompter)

	decision, err := r.Reconcile(context.Background(), "app123", "", "feature-x")

	require.NoError(t, err)
	assert.Equal(t, "feature-x", decision.Name)
	assert.True(t, decision.Created)
	assert.Equal(t, []string{"feature-x"}, service.created)
	assert.Contains(t, out.String(), `Created new branch "feature-x"`)
}

func TestReconcile_HintDeclinedFallsThroughToOperatorChoice(t *testing.T) {
	service := newFakeService("main", "staging")
	prompter := &scriptedPrompter{
		confirms: []bool{false},
		answers:  []string{"staging"},
	}
	r, out := newReconciler(service, prompter)

	decision, err := r.Reconcile(context.Background(), "app123", "", "feature-x")

	require.NoError(t, err)
	assert.Equal(t, "staging", decision.Name)
	assert.False(t, decision.Created)
	// Declining never silently resolves to a non-existent branch: the
	// operator sees the full remote listing first.
	assert.Equal(t, 1, service.listCalls)
	assert.Contains(t, out.String(), "Available branches:")
	assert.Contains(t, out.String(), "- main")
}

func TestReconcile_OperatorRepromptsUntilResolved(t *testing.T) {
	service := newFakeService("main")
	prompter := &scriptedPrompter{
		// First name unknown and creation declined, second name unknown
		// and created.
		answers:  []string{"typo-branch", "feature-y"},
		confirms: []bool{false, true},
	}
	r, _ := newReconciler(service, prompter)

	decision, err := r.Reconcile(context.Background(), "app123", "", "")

	require.NoError(t, err)
	assert.Equal(t, "feature-y", decision.Name)
	assert.True(t, decision.Created)
	assert.Equal(t, []string{"feature-y"}, service.created)
}

func TestReconcile_OperatorCreateFailureReprompts(t *testing.T) {
	service := newFakeService("main")
	service.createErr = &domain.ServiceError{Op: "create branch", Err: errors.New("denied")}
	prompter := &scriptedPrompter{
		answers:  []string{"feature-z", "main"},
		confirms: []bool{true},
	}
	r, out := newReconciler(service, prompter)

	decision, err := r.Reconcile(context.Background(), "app123", "", "")

	require.NoError(t, err)
	assert.Equal(t, "main", decision.Name)
	assert.Contains(t, out.String(), `Could not create branch "feature-z"`)
}

func TestReconcile_HintCreateFailureFallsThrough(t *testing.T) {
	service := newFakeService("main")
	service.createErr = &domain.ServiceError{Op: "create branch", Err: errors.New("denied")}
	prompter := &scriptedPrompter{
		confirms: []bool{true},
		answers:  []string{"main"},
	}
	r, _ := newReconciler(service, prompter)

	decision, err := r.Reconcile(context.Background(), "app123", "", "feature-x")

	require.NoError(t, err)
	assert.Equal(t, "main", decision.Name)
	assert.Equal(t, 1, service.listCalls)
}

func TestReconcile_ServiceErrorPropagates(t *testing.T) {
	service := newFakeService("main")
	service.getErr = &domain.ServiceError{Op: "get branch", Err: errors.New("throttled")}
	r, _ := newReconciler(service, &scriptedPrompter{})

	_, err := r.Reconcile(context.Background(), "app123", "main", "")

	require.Error(t, err)
	var svcErr *domain.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestReconcile_OperatorInputExhausted(t *testing.T) {
	service := newFakeService("main")
	r, _ := newReconciler(service, &scriptedPrompter{})

	_, err := r.Reconcile(context.Background(), "app123", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator input")
}
