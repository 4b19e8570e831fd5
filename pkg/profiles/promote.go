package profiles

import (
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/internal/hashutil"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/spf13/afero"
)

// PromoteResult describes a completed promotion.
type PromoteResult struct {
	Profile  string                   `yaml:"profile"`
	Promoted []string                 `yaml:"promoted"`
	Backups  []restore.ConflictBackup `yaml:"backups,omitempty"`
}

// Promote copies the shell files of profile name into the home directory.
// Existing files with other content are first backed up with
// restore.BackupSuffix. A failure
// rolls back what was already copied.
func Promote(fsys afero.Fs, p paths.Paths, name string) (*PromoteResult, error) {
	logger := logging.GetLogger("profiles")
	if err := Find(fsys, p, name); err != nil {
		return nil, err
	}

	src := p.ProfileDir(name)
	result := &PromoteResult{Profile: name}
	var written []string

	fail := func(err error) (*PromoteResult, error) {
		rbErr := restore.Rollback(fsys, written, result.Backups)
		return nil, &restore.Error{Cause: err, RollbackErr: rbErr, SnapshotDir: src, HomeDir: p.Home()}
	}

	for _, rel := range snapshot.WellKnownFiles {
		from := filepath.Join(src, rel)
		info, err := fsys.Stat(from)
		if err != nil || info.IsDir() {
			continue
		}

		dest := p.HomeFile(rel)
		if sameContent(fsys, from, dest) {
			if err := fsys.Chmod(dest, info.Mode().Perm()); err != nil {
				return fail(errors.FromIO(err, "chmod", dest))
			}
			result.Promoted = append(result.Promoted, dest)
			continue
		}
		if filesystem.IsRegularFile(fsys, dest) {
			backup, err := filesystem.FreeSibling(fsys, dest, restore.BackupSuffix)
			if err != nil {
				return fail(errors.FromIO(err, "stat", dest))
			}
			destInfo, err := fsys.Stat(dest)
			if err != nil {
				return fail(errors.FromIO(err, "stat", dest))
			}
			if err := filesystem.CopyFile(fsys, dest, backup, destInfo.Mode().Perm()); err != nil {
				return fail(errors.FromIO(err, "backup", backup))
			}
			result.Backups = append(result.Backups, restore.ConflictBackup{Original: dest, Backup: backup})
		}

		written = append(written, dest)
		if err := filesystem.CopyFile(fsys, from, dest, info.Mode().Perm()); err != nil {
			return fail(errors.FromIO(err, "copy", dest))
		}
		logger.Debug().Str("profile", name).Str("path", dest).Msg("Promoted")
		result.Promoted = append(result.Promoted, dest)
	}

	if len(result.Promoted) == 0 {
		logger.Warn().Str("profile", name).Msg("Profile has no shell files to promote")
	}
	return result, nil
}

func sameContent(fsys afero.Fs, a, b string) bool {
	if !filesystem.IsRegularFile(fsys, b) {
		return false
	}
	sumA, err := hashutil.CalculateFileChecksum(fsys, a)
	if err != nil {
		return false
	}
	sumB, err := hashutil.CalculateFileChecksum(fsys, b)
	return err == nil && sumA == sumB
}
