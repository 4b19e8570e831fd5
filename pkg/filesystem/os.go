package filesystem

import (
	"github.com/spf13/afero"
)

// NewOS returns the real operating system filesystem.
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}
