package restore

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/conflict"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/spf13/afero"
)

const (
	// BackupSuffix is appended to an existing file moved aside by
	// BackupThenOverwrite. These files are left for the user.
	BackupSuffix = ".zprof-backup"

	// RollbackSuffix marks the transient copy of a file the user chose to
	// overwrite. It is removed once the restore succeeds.
	RollbackSuffix = ".zprof-rollback"
)

// ConflictResolver chooses a policy for one destination.
type ConflictResolver interface {
	Resolve(dest string, interactive bool) (conflict.Policy, error)
}

// ConflictBackup pairs a destination with the sibling holding its
// pre-restore content.
type ConflictBackup struct {
	Original string `yaml:"original"`
	Backup   string `yaml:"backup"`
}

// Warning is a soft per-file problem that did not stop the restore.
type Warning struct {
	RelativePath string `yaml:"relative_path"`
	Message      string `yaml:"message"`
	Err          error  `yaml:"-"`
}

func newWarning(rel string, err error) Warning {
	return Warning{RelativePath: rel, Message: err.Error(), Err: err}
}

// Outcome describes a completed restore.
type Outcome struct {
	SnapshotDir string           `yaml:"snapshot_dir"`
	Restored    []string         `yaml:"restored"`
	Skipped     []string         `yaml:"skipped,omitempty"`
	Backups     []ConflictBackup `yaml:"backups,omitempty"`
	Warnings    []Warning        `yaml:"warnings,omitempty"`
}

// Engine restores snapshots onto a filesystem.
type Engine struct {
	fs       afero.Fs
	resolver ConflictResolver
}

// NewEngine creates an Engine. A nil resolver resolves every conflict
// without prompting.
func NewEngine(fsys afero.Fs, resolver ConflictResolver) *Engine {
	if resolver == nil {
		resolver = conflict.NewResolver(fsys, nil)
	}
	return &Engine{fs: fsys, resolver: resolver}
}

type journal struct {
	restored  []string
	conflicts []ConflictBackup
	stashes   map[string]bool
}

// Restore copies every file of the snapshot in snapshotDir into homeDir,
// in manifest order. A destination that already holds the snapshot content
// only gets its mode reset. Missing payloads and checksum mismatches become
// warnings on the Outcome. Any other failure stops the restore, rolls back
// what was done and returns an *Error.
func (e *Engine) Restore(homeDir, snapshotDir string, interactive bool) (*Outcome, error) {
	logger := logging.GetLogger("restore")
	done := logging.LogOperationStart(logger, "restore")
	defer done()

	m, err := snapshot.ValidateSnapshot(e.fs, snapshotDir)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{SnapshotDir: snapshotDir}
	j := &journal{stashes: map[string]bool{}}

	for _, f := range m.Files {
		if err := e.restoreFile(homeDir, snapshotDir, f, interactive, j, outcome); err != nil {
			logger.Error().Err(err).Str("path", f.RelativePath).Msg("Restore failed, rolling back")
			rbErr := Rollback(e.fs, j.restored, j.conflicts)
			if rbErr != nil {
				logger.Error().Err(rbErr).Msg("Rollback incomplete")
			} else {
				logger.Info().Int("files", len(j.restored)).Msg("Rollback completed")
			}
			return nil, &Error{
				Cause:       err,
				RollbackErr: rbErr,
				SnapshotDir: snapshotDir,
				HomeDir:     homeDir,
			}
		}
	}

	for _, c := range j.conflicts {
		if !j.stashes[c.Backup] {
			outcome.Backups = append(outcome.Backups, c)
			continue
		}
		if err := e.fs.Remove(c.Backup); err != nil {
			logger.Warn().Err(err).Str("path", c.Backup).Msg("Could not remove rollback stash")
		}
	}

	logger.Info().
		Int("restored", len(outcome.Restored)).
		Int("skipped", len(outcome.Skipped)).
		Int("warnings", len(outcome.Warnings)).
		Msg("Restore completed")
	return outcome, nil
}

func (e *Engine) restoreFile(homeDir, snapshotDir string, f snapshot.BackedUpFile, interactive bool, j *journal, outcome *Outcome) error {
	logger := logging.GetLogger("restore")

	payload := snapshot.PayloadPath(snapshotDir, f)
	if !filesystem.IsRegularFile(e.fs, payload) {
		logger.Warn().Str("path", f.RelativePath).Msg("Snapshot payload missing, skipping")
		outcome.Warnings = append(outcome.Warnings, newWarning(f.RelativePath,
			errors.Newf(errors.ErrFileMissing, "snapshot payload %s is missing", payload).
				WithDetail("path", payload)))
		return nil
	}

	dest := filepath.Join(homeDir, f.RelativePath)
	if filesystem.IsRegularFile(e.fs, dest) && snapshot.VerifyChecksum(e.fs, dest, f.Checksum) == nil {
		// Same content as the snapshot: not a conflict, only the mode may differ.
		if err := e.fs.Chmod(dest, f.Mode()); err != nil {
			return errors.FromIO(err, "chmod", dest)
		}
		logger.Debug().Str("path", dest).Msg("Already matches snapshot")
		outcome.Restored = append(outcome.Restored, dest)
		return nil
	}

	policy, err := e.resolver.Resolve(dest, interactive)
	if err != nil {
		return errors.FromIO(err, "stat", dest)
	}
	if policy == conflict.Skip {
		logger.Info().Str("path", dest).Msg("Skipped by user")
		outcome.Skipped = append(outcome.Skipped, f.RelativePath)
		return nil
	}

	info, err := e.fs.Stat(dest)
	switch {
	case err == nil:
		suffix := BackupSuffix
		if policy == conflict.Overwrite {
			suffix = RollbackSuffix
		}
		backup, err := e.backupExisting(dest, suffix, info.Mode().Perm())
		if err != nil {
			return err
		}
		j.conflicts = append(j.conflicts, ConflictBackup{Original: dest, Backup: backup})
		if policy == conflict.Overwrite {
			j.stashes[backup] = true
		}
	case !stderrors.Is(err, fs.ErrNotExist):
		return errors.FromIO(err, "stat", dest)
	}

	if err := filesystem.EnsureParent(e.fs, dest); err != nil {
		return errors.FromIO(err, "mkdir", filepath.Dir(dest))
	}

	// Journal before the copy so a partial write is removed on rollback.
	j.restored = append(j.restored, dest)
	if err := filesystem.CopyFile(e.fs, payload, dest, f.Mode()); err != nil {
		return errors.FromIO(err, "copy", dest)
	}

	if err := snapshot.VerifyChecksum(e.fs, dest, f.Checksum); err != nil {
		if !errors.IsErrorCode(err, errors.ErrChecksumMismatch) {
			return err
		}
		logger.Warn().Str("path", dest).Msg("Checksum mismatch after restore, snapshot may be corrupted")
		outcome.Warnings = append(outcome.Warnings, newWarning(f.RelativePath, err))
	}

	logger.Debug().Str("path", dest).Stringer("policy", policy).Msg("Restored")
	outcome.Restored = append(outcome.Restored, dest)
	return nil
}

// backupExisting copies dest to the first free sibling name built from
// suffix, so an older backup is never overwritten, and returns that name.
func (e *Engine) backupExisting(dest, suffix string, perm fs.FileMode) (string, error) {
	backup, err := filesystem.FreeSibling(e.fs, dest, suffix)
	if err != nil {
		return "", errors.FromIO(err, "stat", dest+suffix)
	}
	if err := filesystem.CopyFile(e.fs, dest, backup, perm); err != nil {
		_ = e.fs.Remove(backup)
		return "", errors.FromIO(err, "backup", backup)
	}
	logger := logging.GetLogger("restore")
	logger.Debug().Str("path", dest).Str("backup", backup).Msg("Backed up existing file")
	return backup, nil
}
