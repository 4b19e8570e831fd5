package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/zprof/pkg/errors"
)

// ValidateProfileName ensures a profile name is valid for use in paths.
// Profile names must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain control characters
func ValidateProfileName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "profile name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.New(errors.ErrInvalidInput, "profile name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "profile name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "profile name contains control characters")
		}
	}

	return nil
}

// ValidateRelativePath checks that rel is a clean, relative path that stays
// inside whatever directory it is joined to.
func ValidateRelativePath(rel string) error {
	if rel == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if strings.Contains(rel, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}
	if filepath.IsAbs(rel) {
		return errors.Newf(errors.ErrInvalidInput, "path must be relative: %s", rel)
	}
	clean := filepath.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput, "path escapes its root: %s", rel)
	}
	return nil
}
