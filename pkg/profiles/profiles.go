// Package profiles lists the profiles of a managed tree and promotes one
// of them to be the home directory's plain shell configuration.
package profiles

import (
	stderrors "errors"
	"io/fs"
	"sort"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/afero"
)

// maxEditDistance bounds typo suggestions.
const maxEditDistance = 2

// List returns the names of every profile directory, sorted. A missing
// profiles directory yields no profiles.
func List(fsys afero.Fs, p paths.Paths) ([]string, error) {
	entries, err := afero.ReadDir(fsys, p.ProfilesDir())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.FromIO(err, "list", p.ProfilesDir())
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && paths.ValidateProfileName(entry.Name()) == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Find checks that name is an existing profile. An unknown name fails with
// PROFILE_NOT_FOUND carrying "suggestions" and "available" details.
func Find(fsys afero.Fs, p paths.Paths, name string) error {
	if err := paths.ValidateProfileName(name); err != nil {
		return err
	}
	names, err := List(fsys, p)
	if err != nil {
		return err
	}
	for _, candidate := range names {
		if candidate == name {
			return nil
		}
	}
	return errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name).
		WithDetail("suggestions", Suggest(name, names)).
		WithDetail("available", names)
}

// Suggest returns the candidates that look like name: fuzzy subsequence
// matches first, ranked by distance, then near typos.
func Suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		seen[r.Target] = true
		out = append(out, r.Target)
	}
	for _, candidate := range candidates {
		if !seen[candidate] && fuzzy.LevenshteinDistance(name, candidate) <= maxEditDistance {
			out = append(out, candidate)
		}
	}
	return out
}
