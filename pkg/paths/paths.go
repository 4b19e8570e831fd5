package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot overrides the managed tree location
	EnvRoot = "ZPROF_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Managed tree layout. These names are part of the on-disk contract and
// are not user-configurable.
const (
	DefaultRootName   = ".zsh-profiles"
	ProfilesDirName   = "profiles"
	SharedDirName     = "shared"
	CacheDirName      = "cache"
	BackupsDirName    = "backups"
	SettingsFileName  = "config.toml"
	PreInstallDirName = "pre-zprof"
	SafetyDirName     = ".zprof-safety"

	// EntryPointName is the home-directory file zprof generates to point
	// zsh at the active profile.
	EntryPointName = ".zshenv"
)

// Paths locates the home directory and the managed tree.
type Paths struct {
	home string
	root string
}

// New creates a Paths for an explicit home directory and managed root.
// An empty root defaults to <home>/.zsh-profiles.
func New(home, root string) (Paths, error) {
	if home == "" {
		return Paths{}, errors.New(errors.ErrInvalidInput, "home directory cannot be empty")
	}
	absHome, err := filepath.Abs(expandHome(home, home))
	if err != nil {
		return Paths{}, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for home %s", home)
	}

	if root == "" {
		root = filepath.Join(absHome, DefaultRootName)
	}
	absRoot, err := filepath.Abs(expandHome(root, absHome))
	if err != nil {
		return Paths{}, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for root %s", root)
	}

	return Paths{home: filepath.Clean(absHome), root: filepath.Clean(absRoot)}, nil
}

// FromEnvironment resolves Paths from the process environment.
func FromEnvironment() (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return Paths{}, err
	}
	return New(home, os.Getenv(EnvRoot))
}

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
// If both fail, it returns an error rather than using dangerous defaults.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	if homeDir = os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrInvalidInput, "unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}

// expandHome expands a leading ~ to home
func expandHome(path, home string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	// ~something (not the user's home)
	return path
}

// Home returns the home directory
func (p Paths) Home() string { return p.home }

// Root returns the managed tree root
func (p Paths) Root() string { return p.root }

// ProfilesDir returns the directory holding all profiles
func (p Paths) ProfilesDir() string { return filepath.Join(p.root, ProfilesDirName) }

// ProfileDir returns the directory of a single profile
func (p Paths) ProfileDir(name string) string { return filepath.Join(p.ProfilesDir(), name) }

func (p Paths) SharedDir() string { return filepath.Join(p.root, SharedDirName) }

func (p Paths) CacheDir() string { return filepath.Join(p.root, CacheDirName) }

func (p Paths) BackupsDir() string { return filepath.Join(p.root, BackupsDirName) }

// PreInstallSnapshotDir returns where the one pre-install snapshot lives
func (p Paths) PreInstallSnapshotDir() string {
	return filepath.Join(p.BackupsDir(), PreInstallDirName)
}

// SettingsFile returns the top-level settings file
func (p Paths) SettingsFile() string { return filepath.Join(p.root, SettingsFileName) }

// SafetySnapshotDir returns where uninstall safety archives are written
func (p Paths) SafetySnapshotDir() string { return filepath.Join(p.home, SafetyDirName) }

// EntryPoint returns the generated zsh entry point in the home directory
func (p Paths) EntryPoint() string { return filepath.Join(p.home, EntryPointName) }

// HomeFile maps a home-relative path to an absolute one
func (p Paths) HomeFile(rel string) string { return filepath.Join(p.home, rel) }

// ManagedSubdirs lists the managed sub-directories other than backups.
func (p Paths) ManagedSubdirs() []string {
	return []string{p.ProfilesDir(), p.SharedDir(), p.CacheDir()}
}
