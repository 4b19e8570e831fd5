package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a home directory and managed tree on an
// isolated filesystem.
type TestEnvironment struct {
	FS    afero.Fs
	Paths paths.Paths
	Type  EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment with an empty home
// directory. The managed tree is not created; use Install for that.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	var home string
	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
		home = "/virtual/home"
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		home = filepath.Join(t.TempDir(), "home")
	}

	p, err := paths.New(home, "")
	require.NoError(t, err)
	env.Paths = p
	require.NoError(t, env.FS.MkdirAll(home, 0755))

	return env
}

// HomeFile returns the absolute path of a home-relative file
func (env *TestEnvironment) HomeFile(rel string) string {
	return env.Paths.HomeFile(rel)
}

// WriteHomeFile writes a file relative to the home directory
func (env *TestEnvironment) WriteHomeFile(rel, content string) string {
	env.t.Helper()
	return env.WriteFile(env.HomeFile(rel), content, 0644)
}

// WriteFile writes an absolute path, creating parents as needed
func (env *TestEnvironment) WriteFile(path, content string, perm os.FileMode) string {
	env.t.Helper()
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, afero.WriteFile(env.FS, path, []byte(content), perm))
	require.NoError(env.t, env.FS.Chmod(path, perm))
	return path
}

// ReadFile returns the content of path, failing the test if unreadable
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, path)
	require.NoError(env.t, err)
	return string(data)
}

// Install lays out a managed tree with the given profiles, each holding a
// .zshrc, plus shared/, cache/, backups/ and config.toml.
func (env *TestEnvironment) Install(profiles ...string) {
	env.t.Helper()
	p := env.Paths
	for _, dir := range []string{p.ProfilesDir(), p.SharedDir(), p.CacheDir(), p.BackupsDir()} {
		require.NoError(env.t, env.FS.MkdirAll(dir, 0755))
	}
	env.WriteFile(p.SettingsFile(), "[general]\n", 0644)
	for _, name := range profiles {
		env.WriteFile(filepath.Join(p.ProfileDir(name), ".zshrc"), "# profile "+name+"\n", 0644)
	}
}

// AssertFileContent checks that path exists with exactly content
func (env *TestEnvironment) AssertFileContent(path, content string) {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, path)
	if assert.NoError(env.t, err, "reading %s", path) {
		assert.Equal(env.t, content, string(data), "content of %s", path)
	}
}

// AssertExists checks that path exists
func (env *TestEnvironment) AssertExists(path string) {
	env.t.Helper()
	_, err := env.FS.Stat(path)
	assert.NoError(env.t, err, "%s should exist", path)
}

// AssertNotExists checks that path does not exist
func (env *TestEnvironment) AssertNotExists(path string) {
	env.t.Helper()
	_, err := env.FS.Stat(path)
	assert.True(env.t, os.IsNotExist(err), "%s should not exist (stat err: %v)", path, err)
}

// Mode returns the permission bits of path
func (env *TestEnvironment) Mode(path string) os.FileMode {
	env.t.Helper()
	info, err := env.FS.Stat(path)
	require.NoError(env.t, err)
	return info.Mode().Perm()
}
