package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Op names a filesystem operation that FaultFS can fail.
type Op string

const (
	OpWrite     Op = "write" // Create, or OpenFile with a write flag
	OpRead      Op = "read"  // Open, or OpenFile read-only
	OpRemove    Op = "remove"
	OpRemoveAll Op = "removeall"
	OpRename    Op = "rename" // matched against the source path
	OpChmod     Op = "chmod"
	OpMkdir     Op = "mkdir"
)

type faultKey struct {
	op   Op
	path string
}

// FaultFS wraps an afero.Fs and returns injected errors for configured
// (operation, path) pairs. Everything else is passed through.
type FaultFS struct {
	afero.Fs

	mu     sync.Mutex
	faults map[faultKey]error
	calls  map[Op][]string
}

// NewFaultFS wraps base.
func NewFaultFS(base afero.Fs) *FaultFS {
	return &FaultFS{
		Fs:     base,
		faults: make(map[faultKey]error),
		calls:  make(map[Op][]string),
	}
}

// WithError configures the filesystem to return err for op on path.
func (f *FaultFS) WithError(op Op, path string, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[faultKey{op, filepath.Clean(path)}] = err
	return f
}

// WithPermissionDenied is WithError with a permission PathError.
func (f *FaultFS) WithPermissionDenied(op Op, path string) *FaultFS {
	return f.WithError(op, path, &fs.PathError{Op: string(op), Path: path, Err: fs.ErrPermission})
}

// Clear removes every injected fault.
func (f *FaultFS) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = make(map[faultKey]error)
}

// Calls returns the paths op was attempted on, in order.
func (f *FaultFS) Calls(op Op) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clean := filepath.Clean(path)
	f.calls[op] = append(f.calls[op], clean)
	return f.faults[faultKey{op, clean}]
}

func (f *FaultFS) Create(name string) (afero.File, error) {
	if err := f.check(OpWrite, name); err != nil {
		return nil, err
	}
	return f.Fs.Create(name)
}

func (f *FaultFS) Open(name string) (afero.File, error) {
	if err := f.check(OpRead, name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}

func (f *FaultFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	op := OpRead
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		op = OpWrite
	}
	if err := f.check(op, name); err != nil {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.Fs.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.Fs.RemoveAll(path)
}

func (f *FaultFS) Rename(oldname, newname string) error {
	if err := f.check(OpRename, oldname); err != nil {
		return err
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultFS) Chmod(name string, mode os.FileMode) error {
	if err := f.check(OpChmod, name); err != nil {
		return err
	}
	return f.Fs.Chmod(name, mode)
}

func (f *FaultFS) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.Fs.MkdirAll(path, perm)
}

func (f *FaultFS) Name() string { return "FaultFS(" + f.Fs.Name() + ")" }
