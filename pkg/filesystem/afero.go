package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Exists reports whether path exists. A stat failure other than "not
// found" is returned so callers never mistake an unreadable path for an
// absent one.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// CopyFile copies src to dst byte-for-byte, creating or truncating dst,
// and then applies perm to dst.
func CopyFile(fsys afero.Fs, src, dst string, perm fs.FileMode) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err = out.Sync(); err != nil {
		return err
	}
	// OpenFile only applies perm on creation; an existing dst keeps its
	// old mode unless it is set explicitly.
	return fsys.Chmod(dst, perm)
}

// WriteFileAtomic writes data to a sibling temp file and renames it over
// path, so readers either see the previous content or the complete new one.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// EnsureDir creates dir and its parents with perm, then tightens dir itself
// to perm in case it already existed with looser bits.
func EnsureDir(fsys afero.Fs, dir string, perm fs.FileMode) error {
	if err := fsys.MkdirAll(dir, perm); err != nil {
		return err
	}
	return fsys.Chmod(dir, perm)
}

// EnsureParent creates the parent directory of path.
func EnsureParent(fsys afero.Fs, path string) error {
	return fsys.MkdirAll(filepath.Dir(path), 0755)
}

// FreeSibling returns path+suffix, or path+suffix+".N" for the first N
// that does not exist yet.
func FreeSibling(fsys afero.Fs, path, suffix string) (string, error) {
	candidate := path + suffix
	for i := 1; ; i++ {
		exists, err := Exists(fsys, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%s.%d", path, suffix, i)
	}
}
