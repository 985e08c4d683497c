package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

const sampleConfig = `alice:
  AWS_PROFILE: alice-profile
  apps:
    site:
      app_id: app123
      repo_root: /home/alice/site
      build_directory: ./dist
      default_branch: main
    docs:
      app_id: app456
      repo_root: /home/alice/docs
bob:
  AWS_PROFILE: bob-profile
  apps:
    blog:
      app_id: app789
      build_directory: ./public
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfigFile(t, sampleConfig)

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Users, 2)

	assert.Equal(t, "alice", f.Users[0].Name)
	assert.Equal(t, "alice-profile", f.Users[0].AWSProfile)
	assert.Equal(t, "bob", f.Users[1].Name)

	// Declaration order of apps must survive parsing.
	require.Len(t, f.Users[0].Apps, 2)
	assert.Equal(t, "site", f.Users[0].Apps[0].Name)
	assert.Equal(t, "docs", f.Users[0].Apps[1].Name)

	site := f.Users[0].Apps[0].Entry
	assert.Equal(t, "app123", site.AppID)
	assert.Equal(t, "/home/alice/site", site.RepoRoot)
	assert.Equal(t, "./dist", site.BuildDirectory)
	assert.Equal(t, "main", site.DefaultBranch)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfigFile(t, "alice: [unbalanced")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigMalformed)
}

func TestParse_TopLevelNotMapping(t *testing.T) {
	_, err := Parse([]byte("- just\n- a\n- list\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigMalformed)
}

func TestParse_EmptyDocument(t *testing.T) {
	f, err := Parse([]byte(""))

	require.NoError(t, err)
	assert.Empty(t, f.Users)
}

func TestResolve_MatchingUser(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	cfg := Resolve(f, "bob")

	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, "bob-profile", cfg.AWSProfile)
	assert.False(t, cfg.Fallback)
	require.Len(t, cfg.Apps, 1)
	assert.Equal(t, "blog", cfg.Apps[0].Name)
}

func TestResolve_UnknownUserFallsBackToFirstEntry(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	cfg := Resolve(f, "mallory")

	assert.Equal(t, "mallory", cfg.Username)
	assert.True(t, cfg.Fallback)
	assert.Equal(t, "alice-profile", cfg.AWSProfile)
	require.Len(t, cfg.Apps, 2)
	assert.Equal(t, "site", cfg.Apps[0].Name)
}

func TestResolve_EmptyFile(t *testing.T) {
	cfg := Resolve(&File{}, "alice")

	assert.Equal(t, "alice", cfg.Username)
	assert.False(t, cfg.Fallback)
	assert.Empty(t, cfg.Apps)
}

func TestDetectUsernameFrom_FirstUsableProbeWins(t *testing.T) {
	probes := []Probe{
		{Name: "failing", Lookup: func() (string, error) { return "", errors.New("boom") }},
		{Name: "empty", Lookup: func() (string, error) { return "", nil }},
		{Name: "superuser", Lookup: func() (string, error) { return "root", nil }},
		{Name: "named", Lookup: func() (string, error) { return "alice", nil }},
		{Name: "later", Lookup: func() (string, error) { return "bob", nil }},
	}

	assert.Equal(t, "alice", DetectUsernameFrom(probes))
}

func TestDetectUsernameFrom_AllProbesFail(t *testing.T) {
	probes := []Probe{
		{Name: "failing", Lookup: func() (string, error) { return "", errors.New("boom") }},
		{Name: "superuser", Lookup: func() (string, error) { return "root", nil }},
	}

	assert.Equal(t, FallbackUsername, DetectUsernameFrom(probes))
}

func TestDetectUsername_EnvOverrideWins(t *testing.T) {
	t.Setenv("USER", "override-user")

	assert.Equal(t, "override-user", DetectUsername())
}
