package snapshot

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/internal/hashutil"
	"github.com/spf13/afero"
)

// ValidateSnapshot loads the manifest of a snapshot directory. It only
// checks that the manifest is present and well formed; payload checksums
// are verified lazily, one file at a time, during restoration.
func ValidateSnapshot(fsys afero.Fs, snapshotDir string) (*Manifest, error) {
	return readManifest(fsys, snapshotDir)
}

// VerifyChecksum recomputes the SHA-256 of path and compares it to
// expected. It fails with FILE_MISSING when path does not exist and
// CHECKSUM_MISMATCH when the content differs.
func VerifyChecksum(fsys afero.Fs, path, expected string) error {
	actual, err := hashutil.CalculateFileChecksum(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Newf(errors.ErrFileMissing, "file %s does not exist", path).
				WithDetail("path", path)
		}
		return errors.FromIO(err, "checksum", path)
	}
	if actual != expected {
		return errors.Newf(errors.ErrChecksumMismatch, "checksum mismatch for %s", path).
			WithDetail("path", path).
			WithDetail("expected", expected).
			WithDetail("actual", actual)
	}
	return nil
}

// FileStatus is the verification outcome of one payload.
type FileStatus string

const (
	StatusOK         FileStatus = "ok"
	StatusMissing    FileStatus = "missing"
	StatusMismatch   FileStatus = "mismatch"
	StatusUnreadable FileStatus = "unreadable"
)

// FileVerification reports on one payload file.
type FileVerification struct {
	RelativePath string     `yaml:"relative_path"`
	Status       FileStatus `yaml:"status"`
	Detail       string     `yaml:"detail,omitempty"`
	Err          error      `yaml:"-"`
}

// VerifyReport is the result of eagerly checking every payload.
type VerifyReport struct {
	SnapshotDir string             `yaml:"snapshot_dir"`
	Manifest    *Manifest          `yaml:"manifest"`
	Files       []FileVerification `yaml:"files"`
}

// IsIntact is true when every payload is present and matches.
func (r *VerifyReport) IsIntact() bool {
	for _, f := range r.Files {
		if f.Status != StatusOK {
			return false
		}
	}
	return true
}

// Verify checks every payload of a snapshot against its manifest checksum
// to detect silent corruption. Per-file problems are reported, not
// returned; only a missing or unreadable manifest is an error.
func Verify(fsys afero.Fs, snapshotDir string) (*VerifyReport, error) {
	m, err := ValidateSnapshot(fsys, snapshotDir)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{SnapshotDir: snapshotDir, Manifest: m}
	for _, f := range m.Files {
		v := FileVerification{RelativePath: f.RelativePath, Status: StatusOK}
		if err := VerifyChecksum(fsys, PayloadPath(snapshotDir, f), f.Checksum); err != nil {
			v.Err = err
			v.Detail = err.Error()
			switch errors.GetErrorCode(err) {
			case errors.ErrFileMissing:
				v.Status = StatusMissing
			case errors.ErrChecksumMismatch:
				v.Status = StatusMismatch
			default:
				v.Status = StatusUnreadable
			}
		}
		report.Files = append(report.Files, v)
	}
	return report, nil
}
