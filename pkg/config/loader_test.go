package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) paths.Paths {
	t.Helper()
	p, err := paths.New("/home/u", "")
	require.NoError(t, err)
	return p
}

func writeSettings(t *testing.T, fsys afero.Fs, p paths.Paths, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(p.SettingsFile()), 0755))
	require.NoError(t, afero.WriteFile(fsys, p.SettingsFile(), []byte(content), 0644))
}

// statDenied fails every Stat with a permission error.
type statDenied struct{ afero.Fs }

func (s statDenied) Stat(name string) (os.FileInfo, error) {
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), testPaths(t), nil)
	require.NoError(t, err)

	assert.False(t, cfg.Uninstall.KeepBackups)
	assert.True(t, cfg.Uninstall.SafetySnapshot)
	assert.True(t, cfg.Restore.Interactive)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Empty(t, cfg.General.ActiveProfile)
}

func TestLoad_Layers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := testPaths(t)
	writeSettings(t, fsys, p, `
[general]
active_profile = "work"
framework = "oh-my-zsh"

[uninstall]
keep_backups = true
safety_snapshot = true
`)

	t.Run("settings_file", func(t *testing.T) {
		cfg, err := Load(fsys, p, nil)
		require.NoError(t, err)
		assert.Equal(t, "work", cfg.General.ActiveProfile)
		assert.Equal(t, "oh-my-zsh", cfg.General.Framework)
		assert.True(t, cfg.Uninstall.KeepBackups)
	})

	t.Run("environment_beats_file", func(t *testing.T) {
		t.Setenv("ZPROF_UNINSTALL__SAFETY_SNAPSHOT", "false")
		t.Setenv("ZPROF_LOG__VERBOSITY", "2")

		cfg, err := Load(fsys, p, nil)
		require.NoError(t, err)
		assert.False(t, cfg.Uninstall.SafetySnapshot)
		assert.Equal(t, 2, cfg.Log.Verbosity)
	})

	t.Run("overrides_beat_environment", func(t *testing.T) {
		t.Setenv("ZPROF_UNINSTALL__KEEP_BACKUPS", "true")

		cfg, err := Load(fsys, p, map[string]interface{}{
			"uninstall.keep_backups": false,
			"log.verbosity":          9,
		})
		require.NoError(t, err)
		assert.False(t, cfg.Uninstall.KeepBackups)
		assert.Equal(t, MaxVerbosity, cfg.Log.Verbosity)
	})
}

func TestLoad_InvalidSettingsFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := testPaths(t)
	writeSettings(t, fsys, p, "[general\n")

	_, err := Load(fsys, p, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_UnreadableSettingsFile(t *testing.T) {
	_, err := Load(statDenied{afero.NewMemMapFs()}, testPaths(t), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_OnRealFilesystem(t *testing.T) {
	p, err := paths.New(t.TempDir(), "")
	require.NoError(t, err)
	writeSettings(t, afero.NewOsFs(), p, "[general]\nactive_profile = \"home\"\n")

	cfg, err := Load(afero.NewOsFs(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, "home", cfg.General.ActiveProfile)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "uninstall.keep_backups", envKey("ZPROF_UNINSTALL__KEEP_BACKUPS"))
	assert.Equal(t, "home", envKey("ZPROF_HOME"))
}

func TestDefaultContent(t *testing.T) {
	assert.Contains(t, DefaultContent(), "[uninstall]")
}
