package snapshot

import (
	"io/fs"
	"time"
)

const (
	// ManifestFileName is the manifest inside a snapshot directory
	ManifestFileName = "manifest.toml"

	// DirPerm protects the snapshot directory
	DirPerm fs.FileMode = 0700

	// PayloadPerm is used for payload copies; the original mode is kept in
	// the manifest and applied again on restoration.
	PayloadPerm fs.FileMode = 0600
)

// WellKnownFiles are the home-relative shell files captured by a snapshot.
var WellKnownFiles = []string{
	".zshrc",
	".zshenv",
	".zprofile",
	".zlogin",
	".zlogout",
}

// Manifest describes one immutable snapshot.
type Manifest struct {
	ID                string         `toml:"id" yaml:"id"`
	CreatedAt         time.Time      `toml:"created_at" yaml:"created_at"`
	Environment       Environment    `toml:"environment" yaml:"environment"`
	DetectedFramework *Framework     `toml:"detected_framework,omitempty" yaml:"detected_framework,omitempty"`
	Files             []BackedUpFile `toml:"files" yaml:"files"`
}

// Environment is informational metadata recorded at snapshot time. It is
// never validated.
type Environment struct {
	ShellVersion string `toml:"shell_version" yaml:"shell_version"`
	OS           string `toml:"os" yaml:"os"`
	ToolVersion  string `toml:"tool_version" yaml:"tool_version"`
}

// Framework is a customization framework found at snapshot time.
type Framework struct {
	Name        string   `toml:"name" yaml:"name"`
	InstallPath string   `toml:"install_path" yaml:"install_path"`
	ConfigFiles []string `toml:"config_files" yaml:"config_files"`
}

// BackedUpFile is one payload in the snapshot.
type BackedUpFile struct {
	RelativePath string `toml:"relative_path" yaml:"relative_path"`
	Checksum     string `toml:"checksum" yaml:"checksum"`
	Permissions  uint32 `toml:"permissions" yaml:"permissions"`
}

// Mode returns the recorded permission bits.
func (f BackedUpFile) Mode() fs.FileMode {
	return fs.FileMode(f.Permissions).Perm()
}

// Lookup returns the entry for a relative path.
func (m *Manifest) Lookup(rel string) (BackedUpFile, bool) {
	for _, f := range m.Files {
		if f.RelativePath == rel {
			return f, true
		}
	}
	return BackedUpFile{}, false
}
