package config

import (
	"os"
	"os/user"
	"strconv"
)

// FallbackUsername is returned when no probe yields a usable name.
const FallbackUsername = "default_user"

// superuser is never accepted from a probe: deployments run under a named
// profile, and environment overrides must be able to impersonate one even
// when the process runs privileged.
const superuser = "root"

// Probe is a single fallible username source. Probes are evaluated in fixed
// priority order; an error or empty result moves on to the next probe.
type Probe struct {
	Name   string
	Lookup func() (string, error)
}

// DefaultProbes returns the standard probe chain: the USER environment
// override, the USERNAME platform override, the system identity call, a
// UID-to-name lookup, and the fixed fallback literal.
func DefaultProbes() []Probe {
	return []Probe{
		{Name: "env-user", Lookup: func() (string, error) {
			return os.Getenv("USER"), nil
		}},
		{Name: "env-username", Lookup: func() (string, error) {
			return os.Getenv("USERNAME"), nil
		}},
		{Name: "identity", Lookup: func() (string, error) {
			u, err := user.Current()
			if err != nil {
				return "", err
			}
			return u.Username, nil
		}},
		{Name: "uid", Lookup: func() (string, error) {
			u, err := user.LookupId(strconv.Itoa(os.Getuid()))
			if err != nil {
				return "", err
			}
			return u.Username, nil
		}},
		{Name: "fallback", Lookup: func() (string, error) {
			return FallbackUsername, nil
		}},
	}
}

// DetectUsername resolves the effective username using the default probes.
func DetectUsername() string {
	return DetectUsernameFrom(DefaultProbes())
}

// DetectUsernameFrom evaluates probes in order and returns the first
// non-empty, non-superuser result. Probe failures are skipped.
func DetectUsernameFrom(probes []Probe) string {
	for _, p := range probes {
		name, err := p.Lookup()
		if err != nil {
			continue
		}
		if name == "" || name == superuser {
			continue
		}
		return name
	}
	return FallbackUsername
}
