// Package cleanup removes the managed tree and the generated shell entry
// point. Each removal is attempted independently and reported; nothing
// here fails fast.
package cleanup

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/spf13/afero"
)

// EntryPointMarkers must all appear in the home entry point for it to be
// treated as generated.
var EntryPointMarkers = []string{"# Generated by zprof", "ZDOTDIR"}

// Failure is one path that could not be removed.
type Failure struct {
	Path    string `yaml:"path"`
	Message string `yaml:"message"`
	Err     error  `yaml:"-"`
}

// Report is the result of a cleanup.
type Report struct {
	Removed   []string  `yaml:"removed"`
	Preserved []string  `yaml:"preserved,omitempty"`
	Notes     []string  `yaml:"notes,omitempty"`
	Errors    []Failure `yaml:"errors,omitempty"`
}

// IsSuccessful is true when every removal succeeded.
func (r *Report) IsSuccessful() bool {
	return len(r.Errors) == 0
}

// Err folds the failures into one IO_FAILURE error, or returns nil.
func (r *Report) Err() error {
	if r.IsSuccessful() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, f := range r.Errors {
		errs = append(errs, f.Err)
	}
	return errors.Aggregate(errors.ErrIOFailure, "cleanup incomplete, manual removal may be required", errs)
}

func (r *Report) fail(path string, err error, op string) {
	logger := logging.GetLogger("cleanup")
	logger.Warn().Err(err).Str("path", path).Msg("Could not remove")
	coded := errors.FromIO(err, op, path)
	r.Errors = append(r.Errors, Failure{Path: path, Message: coded.Error(), Err: coded})
}

// Cleanup removes the generated entry point and the managed tree. With
// keepBackups the backups directory survives and only the other managed
// subdirectories and the settings file are removed.
func Cleanup(fsys afero.Fs, p paths.Paths, keepBackups bool) *Report {
	logger := logging.GetLogger("cleanup")
	done := logging.LogOperationStart(logger, "cleanup")
	defer done()

	report := &Report{}
	removeEntryPoint(fsys, p.EntryPoint(), report)

	if !keepBackups {
		remove(fsys, p.Root(), report)
		return report
	}

	targets := append(p.ManagedSubdirs(), p.SettingsFile())
	for _, target := range targets {
		remove(fsys, target, report)
	}
	if ok, _ := filesystem.Exists(fsys, p.BackupsDir()); ok {
		report.Preserved = append(report.Preserved, p.BackupsDir())
	}
	return report
}

func remove(fsys afero.Fs, path string, report *Report) {
	exists, err := filesystem.Exists(fsys, path)
	if err != nil {
		report.fail(path, err, "stat")
		return
	}
	if !exists {
		return
	}
	if err := fsys.RemoveAll(path); err != nil {
		report.fail(path, err, "remove")
		return
	}
	logger := logging.GetLogger("cleanup")
	logger.Debug().Str("path", path).Msg("Removed")
	report.Removed = append(report.Removed, path)
}

// removeEntryPoint deletes path only when it carries every marker, then
// removes any generated entry point that a restore moved aside as a backup.
func removeEntryPoint(fsys afero.Fs, path string, report *Report) {
	logger := logging.GetLogger("cleanup")
	defer removeGeneratedBackups(fsys, path, report)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return
		}
		report.fail(path, err, "read")
		return
	}
	if !IsGenerated(string(data)) {
		logger.Info().Str("path", path).Msg("Entry point not generated by zprof, leaving it")
		report.Notes = append(report.Notes, path+" was not generated by zprof and was left untouched")
		return
	}
	if err := fsys.Remove(path); err != nil {
		report.fail(path, err, "remove")
		return
	}
	report.Removed = append(report.Removed, path)
}

// removeGeneratedBackups deletes path+BackupSuffix and its numbered
// siblings when they hold a generated entry point. Backups of user content
// are left alone.
func removeGeneratedBackups(fsys afero.Fs, path string, report *Report) {
	logger := logging.GetLogger("cleanup")

	entries, err := afero.ReadDir(fsys, filepath.Dir(path))
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			report.fail(filepath.Dir(path), err, "read")
		}
		return
	}
	prefix := filepath.Base(path) + restore.BackupSuffix
	for _, entry := range entries {
		if entry.IsDir() || !isBackupName(entry.Name(), prefix) {
			continue
		}
		backup := filepath.Join(filepath.Dir(path), entry.Name())
		data, err := afero.ReadFile(fsys, backup)
		if err != nil {
			report.fail(backup, err, "read")
			continue
		}
		if !IsGenerated(string(data)) {
			continue
		}
		if err := fsys.Remove(backup); err != nil {
			report.fail(backup, err, "remove")
			continue
		}
		logger.Debug().Str("path", backup).Msg("Removed generated entry point backup")
		report.Removed = append(report.Removed, backup)
	}
}

// isBackupName matches prefix and prefix.N.
func isBackupName(name, prefix string) bool {
	if name == prefix {
		return true
	}
	n, ok := strings.CutPrefix(name, prefix+".")
	if !ok || n == "" {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsGenerated reports whether content looks like a generated entry point.
func IsGenerated(content string) bool {
	for _, marker := range EntryPointMarkers {
		if !strings.Contains(content, marker) {
			return false
		}
	}
	return true
}
