// Package output writes operator-facing results to an output destination.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// Presenter formats deployment results and listings for the operator.
// By default, it writes to stdout.
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a Presenter that writes to stdout.
func NewPresenter() *Presenter {
	return &Presenter{out: os.Stdout}
}

// NewPresenterWithOutput creates a Presenter with a custom output
// destination. This is useful for testing.
func NewPresenterWithOutput(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// JobID writes the started deployment's job id as a single line.
func (p *Presenter) JobID(id string) error {
	_, err := fmt.Fprintln(p.out, id)
	return err
}

// Branches writes the remote branch listing for an app.
func (p *Presenter) Branches(appName string, branches []domain.BranchInfo) error {
	if _, err := fmt.Fprintf(p.out, "Available branches for %s:\n", appName); err != nil {
		return err
	}
	for _, b := range branches {
		line := "- " + b.Name
		if b.Stage != "" {
			line += " (" + b.Stage + ")"
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Apps writes the configured app listing with each app's repo root and
// build directory.
func (p *Presenter) Apps(apps domain.AppList) error {
	if _, err := fmt.Fprintln(p.out, "Available apps:"); err != nil {
		return err
	}
	for _, a := range apps {
		if _, err := fmt.Fprintf(p.out, "- %s\n  Repo root: %s\n  Build directory: %s\n",
			a.Name, orUnspecified(a.Entry.RepoRoot), orUnspecified(a.Entry.BuildDirectory)); err != nil {
			return err
		}
	}
	return nil
}

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
