package snapshot

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/internal/hashutil"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// ManifestPath returns the manifest location inside a snapshot directory.
func ManifestPath(snapshotDir string) string {
	return filepath.Join(snapshotDir, ManifestFileName)
}

// PayloadPath returns where an entry's bytes are stored in the snapshot.
func PayloadPath(snapshotDir string, f BackedUpFile) string {
	return filepath.Join(snapshotDir, f.RelativePath)
}

// Validate checks the structural invariants of a manifest.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Files))
	for i, f := range m.Files {
		if err := paths.ValidateRelativePath(f.RelativePath); err != nil {
			return errors.Wrapf(err, errors.ErrManifestUnreadable, "entry %d has an invalid path", i)
		}
		key := filepath.Clean(f.RelativePath)
		if seen[key] {
			return errors.Newf(errors.ErrManifestUnreadable, "duplicate entry for %s", f.RelativePath).
				WithDetail("path", f.RelativePath)
		}
		seen[key] = true
		if !hashutil.IsChecksum(f.Checksum) {
			return errors.Newf(errors.ErrManifestUnreadable, "entry %s has a malformed checksum", f.RelativePath).
				WithDetail("path", f.RelativePath)
		}
	}
	return nil
}

func readManifest(fsys afero.Fs, snapshotDir string) (*Manifest, error) {
	path := ManifestPath(snapshotDir)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrManifestMissing, "no snapshot manifest at %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestUnreadable, "failed to read manifest %s", path).
			WithDetail("path", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestUnreadable, "failed to parse manifest %s", path).
			WithDetail("path", path)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func writeManifest(fsys afero.Fs, snapshotDir string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode manifest")
	}
	path := ManifestPath(snapshotDir)
	if err := filesystem.WriteFileAtomic(fsys, path, data, PayloadPerm); err != nil {
		return errors.FromIO(err, "write manifest", path)
	}
	return nil
}

// Encode renders a manifest in its on-disk TOML form.
func Encode(m *Manifest) (string, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	return string(data), nil
}
