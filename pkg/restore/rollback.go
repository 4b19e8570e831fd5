package restore

import (
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/spf13/afero"
)

// Rollback undoes a partial restore. It deletes every restored path that
// still exists, then moves every conflict backup that still exists back
// over its original. Every step is attempted; failures are aggregated into
// a single ROLLBACK_FAILURE error.
func Rollback(fsys afero.Fs, restored []string, conflicts []ConflictBackup) error {
	logger := logging.GetLogger("restore.rollback")
	var failures []error

	for i := len(restored) - 1; i >= 0; i-- {
		path := restored[i]
		exists, err := filesystem.Exists(fsys, path)
		if err != nil {
			failures = append(failures, errors.FromIO(err, "stat", path))
			continue
		}
		if !exists {
			continue
		}
		if err := fsys.Remove(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Could not remove restored file")
			failures = append(failures, errors.FromIO(err, "remove", path))
			continue
		}
		logger.Debug().Str("path", path).Msg("Removed restored file")
	}

	for i := len(conflicts) - 1; i >= 0; i-- {
		c := conflicts[i]
		exists, err := filesystem.Exists(fsys, c.Backup)
		if err != nil {
			failures = append(failures, errors.FromIO(err, "stat", c.Backup))
			continue
		}
		if !exists {
			continue
		}
		if err := fsys.Rename(c.Backup, c.Original); err != nil {
			logger.Warn().Err(err).Str("backup", c.Backup).Str("path", c.Original).Msg("Could not move backup back")
			failures = append(failures, errors.FromIO(err, "rename", c.Backup))
			continue
		}
		logger.Debug().Str("path", c.Original).Msg("Moved backup back")
	}

	if agg := errors.Aggregate(errors.ErrRollbackFailure, "rollback incomplete", failures); agg != nil {
		return agg
	}
	return nil
}
