// Package git provides the local version-control branch hint used during
// branch reconciliation. It implements domain.BranchOracle using go-git/v5.
package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
)

// Logger defines the logging interface for the git adapter.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Oracle reports the current branch of the repository containing path.
// The absence of a repository or of an active branch is not an error; the
// oracle simply has no hint to offer.
type Oracle struct {
	path   string
	logger Logger
}

// NewOracle creates an Oracle rooted at the given path. The repository is
// discovered by walking parent directories, so the tool can run from
// anywhere inside a working tree.
func NewOracle(path string, log Logger) *Oracle {
	return &Oracle{path: path, logger: log}
}

// CurrentBranch returns the active branch name of the enclosing repository.
// ok is false when path is not inside a repository or HEAD is detached.
func (o *Oracle) CurrentBranch(ctx context.Context) (string, bool) {
	repo, err := gogit.PlainOpenWithOptions(o.path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		o.logger.Warn(ctx, "not in a git repository; no branch hint", map[string]interface{}{
			"path": o.path,
		})
		return "", false
	}

	head, err := repo.Head()
	if err != nil {
		o.logger.Warn(ctx, "could not read HEAD; no branch hint", map[string]interface{}{
			"path":  o.path,
			"error": err.Error(),
		})
		return "", false
	}

	if !head.Name().IsBranch() {
		o.logger.Warn(ctx, "HEAD is detached; no branch hint", map[string]interface{}{
			"head_sha": head.Hash().String(),
		})
		return "", false
	}

	branch := head.Name().Short()
	o.logger.Debug(ctx, "detected local branch", map[string]interface{}{
		"branch": branch,
		"path":   o.path,
	})
	return branch, true
}
