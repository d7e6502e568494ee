package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProfileFile is the default site profile file name.
const DefaultProfileFile = ".nriscan.yaml"

// ErrProfileNotFound is returned when the profile file does not exist.
var ErrProfileNotFound = errors.New("site profile file not found")

// LoadProfile loads a site profile from a YAML file and merges it onto the
// built-in defaults. If the file does not exist, it returns
// ErrProfileNotFound. Callers should handle this error based on whether the
// profile path was explicitly specified by the user.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided profile path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return DefaultProfile().Merge(&p), nil
}

// FindProfileFile searches for the site profile in the following order:
//  1. If profilePath is specified, use it directly
//  2. Look for .nriscan.yaml in the current directory
//  3. Look for profile.yaml in the XDG config directory
//
// Returns the path if found, or empty string if not found.
func FindProfileFile(profilePath string) string {
	if profilePath != "" {
		if _, err := os.Stat(profilePath); err == nil {
			return profilePath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdProfile := filepath.Join(cwd, DefaultProfileFile)
		if _, err := os.Stat(cwdProfile); err == nil {
			return cwdProfile
		}
	}

	xdgProfile := filepath.Join(XDGConfigDir(), "profile.yaml")
	if _, err := os.Stat(xdgProfile); err == nil {
		return xdgProfile
	}

	return ""
}
