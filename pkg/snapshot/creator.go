package snapshot

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"github.com/arthur-debert/zprof/internal/version"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/internal/hashutil"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/probe"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options configures a Creator. Zero values select the defaults.
type Options struct {
	// Probe supplies the shell version; defaults to probe.Noop.
	Probe probe.Probe
	// ToolVersion is recorded in the manifest; defaults to version.Version.
	ToolVersion string
	// Now stamps created_at; defaults to time.Now.
	Now func() time.Time
	// Files lists the home-relative files to capture; defaults to WellKnownFiles.
	Files []string
}

// Creator builds the pre-install snapshot.
type Creator struct {
	fs     afero.Fs
	opts   Options
	logger zerolog.Logger
}

// NewCreator returns a Creator operating on fsys.
func NewCreator(fsys afero.Fs, opts Options) *Creator {
	if opts.Probe == nil {
		opts.Probe = probe.Noop{}
	}
	if opts.ToolVersion == "" {
		opts.ToolVersion = version.Version
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Files) == 0 {
		opts.Files = WellKnownFiles
	}
	return &Creator{fs: fsys, opts: opts, logger: logging.GetLogger("snapshot")}
}

// Create snapshots the shell files of sourceDir into snapshotDir. When
// snapshotDir already holds a valid manifest it is returned unchanged and
// nothing is written. A manifest that exists but cannot be read is an
// error: the snapshot is never clobbered.
func (c *Creator) Create(sourceDir, snapshotDir string) (*Manifest, error) {
	done := logging.LogOperationStart(c.logger, "create_snapshot")
	defer done()

	existing, err := ValidateSnapshot(c.fs, snapshotDir)
	switch {
	case err == nil:
		c.logger.Info().
			Str("snapshot", snapshotDir).
			Time("createdAt", existing.CreatedAt).
			Msg("Snapshot already exists, skipping creation")
		return existing, nil
	case !errors.IsErrorCode(err, errors.ErrManifestMissing):
		return nil, err
	}

	if err := filesystem.EnsureDir(c.fs, snapshotDir, DirPerm); err != nil {
		return nil, errors.FromIO(err, "create snapshot directory", snapshotDir)
	}

	m := &Manifest{
		ID:        uuid.NewString(),
		CreatedAt: c.opts.Now().UTC().Truncate(time.Second),
		Environment: Environment{
			ShellVersion: c.opts.Probe.ShellVersion(),
			OS:           runtime.GOOS + "/" + runtime.GOARCH,
			ToolVersion:  c.opts.ToolVersion,
		},
		Files: []BackedUpFile{},
	}

	for _, rel := range c.opts.Files {
		entry, ok, err := c.capture(sourceDir, snapshotDir, rel)
		if err != nil {
			return nil, err
		}
		if ok {
			m.Files = append(m.Files, entry)
		}
	}

	m.DetectedFramework = DetectFramework(c.fs, sourceDir)
	if m.DetectedFramework != nil {
		c.logger.Info().
			Str("framework", m.DetectedFramework.Name).
			Str("path", m.DetectedFramework.InstallPath).
			Msg("Detected shell framework")
	}

	if err := writeManifest(c.fs, snapshotDir, m); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("snapshot", snapshotDir).
		Int("files", len(m.Files)).
		Msg("Snapshot created")
	return m, nil
}

// capture copies one file into the snapshot. ok is false when the source
// does not exist or is not a regular file.
func (c *Creator) capture(sourceDir, snapshotDir, rel string) (BackedUpFile, bool, error) {
	src := filepath.Join(sourceDir, rel)
	dst := filepath.Join(snapshotDir, rel)

	info, err := c.fs.Stat(src)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			c.logger.Debug().Str("path", src).Msg("Shell file not present, skipping")
			// A payload left behind by an interrupted earlier attempt would
			// otherwise linger without a manifest entry.
			_ = c.fs.Remove(dst)
			return BackedUpFile{}, false, nil
		}
		return BackedUpFile{}, false, errors.FromIO(err, "stat", src)
	}
	if info.IsDir() {
		c.logger.Warn().Str("path", src).Msg("Expected a file but found a directory, skipping")
		return BackedUpFile{}, false, nil
	}

	if err := filesystem.EnsureParent(c.fs, dst); err != nil {
		return BackedUpFile{}, false, errors.FromIO(err, "create directory for", dst)
	}
	if err := filesystem.CopyFile(c.fs, src, dst, PayloadPerm); err != nil {
		return BackedUpFile{}, false, errors.FromIO(err, "copy", src)
	}

	sum, err := hashutil.CalculateFileChecksum(c.fs, dst)
	if err != nil {
		return BackedUpFile{}, false, errors.FromIO(err, "checksum", dst)
	}

	c.logger.Debug().Str("path", rel).Str("checksum", sum).Msg("Captured shell file")
	return BackedUpFile{
		RelativePath: rel,
		Checksum:     sum,
		Permissions:  uint32(info.Mode().Perm()),
	}, true, nil
}
