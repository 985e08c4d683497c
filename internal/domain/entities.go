// Package domain defines the core business entities and interfaces for shiplift.
package domain

// AppEntry describes a single deployable app as declared in the user
// configuration. AppID is the remote platform's primary key and is the only
// required field; deployment additionally requires BuildDirectory.
type AppEntry struct {
	// AppID is the opaque identifier of the app on the hosting platform.
	AppID string `yaml:"app_id"`

	// RepoRoot is the local repository root for this app, used to
	// auto-detect the app when no explicit name is given. Auto-detection
	// assumes repo roots do not overlap across entries; the configuration
	// author must uphold that.
	RepoRoot string `yaml:"repo_root"`

	// BuildDirectory is the directory whose contents are packaged and
	// deployed.
	BuildDirectory string `yaml:"build_directory"`

	// DefaultBranch is the preferred deployment branch when none is given
	// on the command line. Optional.
	DefaultBranch string `yaml:"default_branch"`
}

// NamedApp pairs an app name with its entry. Apps are kept as a slice, not a
// map, because both app auto-detection and the unknown-user fallback depend
// on configuration declaration order.
type NamedApp struct {
	Name  string
	Entry AppEntry
}

// AppList is an ordered collection of configured apps.
type AppList []NamedApp

// Get returns the entry for the given app name.
func (l AppList) Get(name string) (AppEntry, bool) {
	for _, a := range l {
		if a.Name == name {
			return a.Entry, true
		}
	}
	return AppEntry{}, false
}

// UserConfig is the configuration resolved for one operating-system user.
type UserConfig struct {
	// Username is the detected or overridden system username the
	// configuration was resolved for.
	Username string

	// AWSProfile selects the shared-config credential profile used for
	// all Deployment Service calls. Empty means the SDK default chain.
	AWSProfile string

	// Apps holds the user's configured apps in declaration order.
	Apps AppList

	// Fallback is true when no entry matched Username and the first
	// declared user's configuration was substituted.
	Fallback bool
}

// ResolvedTarget is the outcome of app selection: exactly one app.
type ResolvedTarget struct {
	Name  string
	Entry AppEntry
}

// BranchDecision is the outcome of branch reconciliation. Name refers to a
// branch that exists on the remote platform at the moment the decision is
// produced, either confirmed-existing or just-created.
type BranchDecision struct {
	Name string

	// Created is true when reconciliation created the branch remotely.
	Created bool
}

// BranchInfo describes a remote deployment branch.
type BranchInfo struct {
	Name        string
	DisplayName string
	Stage       string
}

// DeploymentJob is a deployment slot issued by the Deployment Service.
// JobID and UploadURL are opaque, single-use tokens.
type DeploymentJob struct {
	AppID     string
	Branch    string
	JobID     string
	UploadURL string
}

// ArtifactName is the fixed file name the packaged build directory is
// written to before upload.
const ArtifactName = "artifacts.zip"
