// Package usecases contains the application business logic: app selection,
// branch reconciliation, and the deployment sequence.
package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// SelectApp picks exactly one app from the user's configuration. An explicit
// name is looked up directly and is fatal when unknown. Without a name, the
// first app whose repo root contains cwd wins, in declaration order; no
// match is fatal with a diagnostic naming both causes.
func SelectApp(cfg *domain.UserConfig, explicitName, cwd string) (*domain.ResolvedTarget, error) {
	if explicitName != "" {
		entry, ok := cfg.Apps.Get(explicitName)
		if !ok {
			return nil, fmt.Errorf("%w: app %q not found in configuration", domain.ErrAppNotResolved, explicitName)
		}
		return &domain.ResolvedTarget{Name: explicitName, Entry: entry}, nil
	}

	for _, a := range cfg.Apps {
		if pathContains(a.Entry.RepoRoot, cwd) {
			return &domain.ResolvedTarget{Name: a.Name, Entry: a.Entry}, nil
		}
	}

	return nil, fmt.Errorf(
		"%w: no app specified and no configured repo_root contains %s",
		domain.ErrAppNotResolved, cwd,
	)
}

// pathContains reports whether dir is root itself or lies underneath it.
// Comparison is path-segment aware, so /srv/app does not contain /srv/app2.
func pathContains(root, dir string) bool {
	if root == "" {
		return false
	}
	root = filepath.Clean(root)
	dir = filepath.Clean(dir)
	if dir == root {
		return true
	}
	return strings.HasPrefix(dir, root+string(filepath.Separator))
}
