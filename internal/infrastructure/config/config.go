// Package config loads the per-user configuration file and resolves the
// effective operating-system username. The file maps usernames to a
// credential profile and an ordered set of app entries; declaration order is
// preserved because both the unknown-user fallback and app auto-detection
// depend on it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// DefaultFileName is the configuration file name looked up in the working
// directory and next to the installed binary.
const DefaultFileName = "config.yaml"

// ErrConfigNotFound indicates the configuration file exists at none of the
// candidate paths. Callers treat this as non-fatal and proceed with an empty
// configuration.
var ErrConfigNotFound = errors.New("configuration file not found")

// UserEntry is one user's raw configuration block.
type UserEntry struct {
	// Name is the username key the block was declared under.
	Name string

	// AWSProfile is the credential profile selector for this user.
	AWSProfile string

	// Apps holds the user's apps in declaration order.
	Apps domain.AppList
}

// File is the parsed multi-user configuration, users in declaration order.
type File struct {
	Users []UserEntry
}

// Get returns the entry for the given username.
func (f *File) Get(name string) (*UserEntry, bool) {
	for i := range f.Users {
		if f.Users[i].Name == name {
			return &f.Users[i], true
		}
	}
	return nil, false
}

// Load reads the configuration file. The path is tried as given first, then
// the same file name next to the executable. Missing at both locations
// returns ErrConfigNotFound; a file that exists but does not parse returns
// an error wrapping domain.ErrConfigMalformed.
func Load(path string) (*File, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		alt, altErr := executableSiblingPath(path)
		if altErr != nil {
			return nil, fmt.Errorf("%w: looked in %s", ErrConfigNotFound, path)
		}
		data, err = os.ReadFile(alt)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: looked in %s and %s", ErrConfigNotFound, path, alt)
			}
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	return Parse(data)
}

// executableSiblingPath returns the candidate path for the configuration
// file co-located with the installed binary.
func executableSiblingPath(path string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), filepath.Base(path)), nil
}

// Parse decodes the multi-user configuration, preserving declaration order.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)
	}
	if len(doc.Content) == 0 {
		return &File{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of usernames", domain.ErrConfigMalformed)
	}

	f := &File{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		val := root.Content[i+1]

		entry, err := parseUser(key.Value, val)
		if err != nil {
			return nil, err
		}
		f.Users = append(f.Users, *entry)
	}
	return f, nil
}

func parseUser(name string, node *yaml.Node) (*UserEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: user %q must be a mapping", domain.ErrConfigMalformed, name)
	}

	entry := &UserEntry{Name: name}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]

		switch key.Value {
		case "AWS_PROFILE":
			entry.AWSProfile = val.Value
		case "apps":
			apps, err := parseApps(name, val)
			if err != nil {
				return nil, err
			}
			entry.Apps = apps
		}
	}
	return entry, nil
}

func parseApps(user string, node *yaml.Node) (domain.AppList, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: apps of user %q must be a mapping", domain.ErrConfigMalformed, user)
	}

	var apps domain.AppList
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]

		var app domain.AppEntry
		if err := val.Decode(&app); err != nil {
			return nil, fmt.Errorf("%w: app %q of user %q: %v", domain.ErrConfigMalformed, key.Value, user, err)
		}
		apps = append(apps, domain.NamedApp{Name: key.Value, Entry: app})
	}
	return apps, nil
}

// Resolve selects the configuration for username. An exact match wins; an
// unmatched username falls back to the first declared entry with the
// Fallback flag set so callers can tell the difference. An empty file
// resolves to an empty configuration.
func Resolve(f *File, username string) *domain.UserConfig {
	if entry, ok := f.Get(username); ok {
		return &domain.UserConfig{
			Username:   username,
			AWSProfile: entry.AWSProfile,
			Apps:       entry.Apps,
		}
	}

	if len(f.Users) > 0 {
		first := f.Users[0]
		return &domain.UserConfig{
			Username:   username,
			AWSProfile: first.AWSProfile,
			Apps:       first.Apps,
			Fallback:   true,
		}
	}

	return &domain.UserConfig{Username: username}
}
