// Package archive writes the safety snapshot: a gzip-compressed tar of
// the whole managed tree taken before any destructive uninstall step.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

const (
	// NamePrefix and Extension frame the timestamp in archive names.
	NamePrefix = "zprof-uninstall-"
	Extension  = ".tar.gz"

	timestampLayout = "20060102-150405"

	dirPerm     fs.FileMode = 0700
	archivePerm fs.FileMode = 0600
)

// Result locates a written archive.
type Result struct {
	Path  string `yaml:"path"`
	Size  int64  `yaml:"size"`
	Files int    `yaml:"files"`
}

// FileName returns the archive name for a snapshot taken at t.
func FileName(t time.Time) string {
	return NamePrefix + t.Format(timestampLayout) + Extension
}

// Create archives root into destDir. Entries are named relative to the
// parent of root, so the tree unpacks into a directory of the same name.
// The archive is written under a temporary name and renamed once closed.
func Create(fsys afero.Fs, root, destDir string, now time.Time) (*Result, error) {
	logger := logging.GetLogger("archive")

	if err := filesystem.EnsureDir(fsys, destDir, dirPerm); err != nil {
		return nil, errors.FromIO(err, "mkdir", destDir)
	}
	final, err := filesystem.FreeSibling(fsys, filepath.Join(destDir, FileName(now)), "")
	if err != nil {
		return nil, errors.FromIO(err, "stat", destDir)
	}
	tmp := final + ".tmp"

	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, archivePerm)
	if err != nil {
		return nil, errors.FromIO(err, "create", tmp)
	}

	files, writeErr := writeTree(fsys, root, out)
	if closeErr := out.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = fsys.Remove(tmp)
		return nil, errors.FromIO(writeErr, "archive", root)
	}
	if err := fsys.Rename(tmp, final); err != nil {
		_ = fsys.Remove(tmp)
		return nil, errors.FromIO(err, "rename", tmp)
	}

	info, err := fsys.Stat(final)
	if err != nil {
		return nil, errors.FromIO(err, "stat", final)
	}
	logger.Info().Str("path", final).Int64("size", info.Size()).Int("files", files).Msg("Safety snapshot written")
	return &Result{Path: final, Size: info.Size(), Files: files}, nil
}

func writeTree(fsys afero.Fs, root string, w io.Writer) (int, error) {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	base := filepath.Dir(root)
	files := 0

	walkErr := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			reader, ok := fsys.(afero.LinkReader)
			if !ok {
				return nil
			}
			if link, err = reader.ReadlinkIfPossible(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(name)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		files++
		return nil
	})
	if walkErr != nil {
		return files, walkErr
	}
	if err := tw.Close(); err != nil {
		return files, err
	}
	return files, gz.Close()
}
