package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// Logger defines the logging interface required by the usecases.
// This abstracts the logger dependency to avoid coupling to a specific
// implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// reconcileState enumerates the branch reconciliation states. The machine
// advances strictly forward; the only terminal outcome is a branch that
// exists remotely.
type reconcileState int

const (
	stateTryConfigured reconcileState = iota
	stateTryVersionControl
	stateTryOperatorChoice
)

// BranchReconciler decides which remote branch receives a deployment,
// reconciling the configured preference, the local version-control branch,
// and interactive operator choice, in that order.
type BranchReconciler struct {
	service  domain.DeploymentService
	prompter domain.Prompter
	logger   Logger
	out      io.Writer
}

// NewBranchReconciler creates a BranchReconciler. Operator-facing messages
// are written to out.
func NewBranchReconciler(
	service domain.DeploymentService,
	prompter domain.Prompter,
	log Logger,
	out io.Writer,
) *BranchReconciler {
	return &BranchReconciler{
		service:  service,
		prompter: prompter,
		logger:   log,
		out:      out,
	}
}

// Reconcile resolves the deployment branch. configured is the branch
// preference from flags or configuration; hint is the local version-control
// branch. Either may be empty. The returned branch exists remotely at the
// moment of return, either confirmed or just-created.
func (r *BranchReconciler) Reconcile(
	ctx context.Context,
	appID, configured, hint string,
) (*domain.BranchDecision, error) {
	state := stateTryConfigured
	for {
		var (
			decision *domain.BranchDecision
			err      error
		)

		switch state {
		case stateTryConfigured:
			decision, err = r.tryConfigured(ctx, appID, configured)
			state = stateTryVersionControl
		case stateTryVersionControl:
			decision, err = r.tryVersionControl(ctx, appID, hint)
			state = stateTryOperatorChoice
		case stateTryOperatorChoice:
			return r.operatorChoice(ctx, appID)
		}

		if err != nil {
			return nil, err
		}
		if decision != nil {
			r.logger.Info(ctx, "branch resolved", map[string]interface{}{
				"app_id":  appID,
				"branch":  decision.Name,
				"created": decision.Created,
			})
			return decision, nil
		}
	}
}

// tryConfigured resolves to the configured branch when it exists remotely.
// A configured branch that is absent remotely is a preference, not a hard
// requirement: warn and fall through.
func (r *BranchReconciler) tryConfigured(
	ctx context.Context,
	appID, configured string,
) (*domain.BranchDecision, error) {
	if configured == "" {
		return nil, nil
	}

	exists, err := r.branchExists(ctx, appID, configured)
	if err != nil {
		return nil, err
	}
	if exists {
		return &domain.BranchDecision{Name: configured}, nil
	}

	fmt.Fprintf(r.out, "Warning: configured branch %q does not exist remotely.\n", configured)
	r.logger.Warn(ctx, "configured branch absent remotely", map[string]interface{}{
		"app_id": appID,
		"branch": configured,
	})
	return nil, nil
}

// tryVersionControl resolves to the local branch when it exists remotely,
// or offers to create it. Declining, or a failed creation, falls through.
func (r *BranchReconciler) tryVersionControl(
	ctx context.Context,
	appID, hint string,
) (*domain.BranchDecision, error) {
	if hint == "" {
		return nil, nil
	}

	exists, err := r.branchExists(ctx, appID, hint)
	if err != nil {
		return nil, err
	}
	if exists {
		return &domain.BranchDecision{Name: hint}, nil
	}

	fmt.Fprintf(r.out, "Branch %q does not exist remotely.\n", hint)
	yes, err := r.prompter.Confirm(fmt.Sprintf("Do you want to create branch %q?", hint))
	if err != nil {
		return nil, fmt.Errorf("failed to read operator input: %w", err)
	}
	if !yes {
		return nil, nil
	}

	if err := r.service.CreateBranch(ctx, appID, hint); err != nil {
		fmt.Fprintf(r.out, "Could not create branch %q: %v\n", hint, err)
		r.logger.Warn(ctx, "branch creation failed; continuing to operator choice", map[string]interface{}{
			"app_id": appID,
			"branch": hint,
			"error":  err.Error(),
		})
		return nil, nil
	}
	fmt.Fprintf(r.out, "Created new branch %q.\n", hint)
	return &domain.BranchDecision{Name: hint, Created: true}, nil
}

// operatorChoice lists all remote branches and loops on operator input until
// an existing or newly-created branch is chosen. There is no automatic exit:
// creating a branch is an irreversible remote write with no safe default.
func (r *BranchReconciler) operatorChoice(
	ctx context.Context,
	appID string,
) (*domain.BranchDecision, error) {
	branches, err := r.service.ListBranches(ctx, appID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(r.out, "No valid branch found. Available branches:")
	for _, b := range branches {
		fmt.Fprintf(r.out, "- %s\n", b.Name)
	}

	for {
		name, err := r.prompter.Ask("Enter the name of the branch you want to deploy to: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read operator input: %w", err)
		}
		if name == "" {
			continue
		}

		exists, err := r.branchExists(ctx, appID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return &domain.BranchDecision{Name: name}, nil
		}

		yes, err := r.prompter.Confirm(fmt.Sprintf("Branch %q does not exist. Do you want to create it?", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read operator input: %w", err)
		}
		if !yes {
			continue
		}

		if err := r.service.CreateBranch(ctx, appID, name); err != nil {
			fmt.Fprintf(r.out, "Could not create branch %q: %v\n", name, err)
			continue
		}
		fmt.Fprintf(r.out, "Created new branch %q.\n", name)
		return &domain.BranchDecision{Name: name, Created: true}, nil
	}
}

// branchExists checks branch existence, treating the not-found condition as
// a clean false rather than an error.
func (r *BranchReconciler) branchExists(ctx context.Context, appID, branch string) (bool, error) {
	_, err := r.service.GetBranch(ctx, appID, branch)
	if err != nil {
		if errors.Is(err, domain.ErrBranchNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
