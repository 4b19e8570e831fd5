package zprof

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/arthur-debert/zprof/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type cliHarness struct {
	env *testutil.TestEnvironment
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	t.Setenv("HOME", env.Paths.Home())
	t.Setenv("ZPROF_HOME", "")
	t.Setenv("XDG_STATE_HOME", filepath.Join(filepath.Dir(env.Paths.Home()), "state"))
	t.Setenv("NO_COLOR", "1")
	return &cliHarness{env: env, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
}

// run executes one zprof invocation with stdin that is not a terminal.
func (h *cliHarness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	a := &app{
		fs:    filesystem.NewOS(),
		in:    strings.NewReader(""),
		out:   h.out,
		err:   h.err,
		probe: testutil.StaticProbe{Version: "zsh 5.9"},
		now:   func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) },
	}
	return run(a, newRootCmd(a), args)
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("version"))
	assert.Contains(t, h.out.String(), "zprof version dev")
}

func TestSnapshotCommand(t *testing.T) {
	h := newHarness(t)
	h.env.WriteHomeFile(".zshrc", "export EDITOR=vim\n")

	require.Equal(t, ExitOK, h.run("snapshot", "-o", "yaml"), h.err.String())

	var m snapshot.Manifest
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &m))
	require.Len(t, m.Files, 1)
	assert.Equal(t, ".zshrc", m.Files[0].RelativePath)
	assert.Equal(t, "zsh 5.9", m.Environment.ShellVersion)

	t.Run("show returns the same snapshot", func(t *testing.T) {
		h.env.WriteHomeFile(".zshrc", "changed\n")
		require.Equal(t, ExitOK, h.run("snapshot", "--show", "-o", "yaml"))

		var shown snapshot.Manifest
		require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &shown))
		assert.Equal(t, m.ID, shown.ID)
		assert.Equal(t, m.Files[0].Checksum, shown.Files[0].Checksum)
	})
}

func TestSnapshotShowWithoutSnapshot(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("snapshot", "--show"))
	assert.Contains(t, h.out.String(), "No pre-install snapshot found")
}

func TestVerifyCommand(t *testing.T) {
	h := newHarness(t)
	h.env.WriteHomeFile(".zshrc", "original\n")
	require.Equal(t, ExitOK, h.run("snapshot"))

	require.Equal(t, ExitOK, h.run("verify"))
	assert.Contains(t, h.out.String(), "All 1 files intact")

	payload := filepath.Join(h.env.Paths.PreInstallSnapshotDir(), ".zshrc")
	h.env.WriteFile(payload, "tampered\n", 0600)

	assert.Equal(t, ExitError, h.run("verify"))
	assert.Contains(t, h.out.String(), "mismatch")
	assert.Contains(t, h.err.String(), "CHECKSUM_MISMATCH")
}

func TestRestoreCommandBacksUpConflicts(t *testing.T) {
	h := newHarness(t)
	zshrc := h.env.WriteHomeFile(".zshrc", "original\n")
	require.Equal(t, ExitOK, h.run("snapshot"))
	h.env.WriteHomeFile(".zshrc", "edited after install\n")

	require.Equal(t, ExitOK, h.run("restore"), h.err.String())

	h.env.AssertFileContent(zshrc, "original\n")
	h.env.AssertFileContent(zshrc+".zprof-backup", "edited after install\n")
}

func TestUninstallNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.env.Install("work")

	assert.Equal(t, ExitCancelled, h.run("uninstall"))
	assert.Contains(t, h.err.String(), "CANCELLED")
	h.env.AssertExists(h.env.Paths.Root())
}

func TestUninstallRestoresOriginal(t *testing.T) {
	h := newHarness(t)
	zshrc := h.env.WriteHomeFile(".zshrc", "original\n")
	h.env.Install("work")
	require.Equal(t, ExitOK, h.run("snapshot"))
	h.env.WriteHomeFile(".zshrc", "managed by zprof\n")

	require.Equal(t, ExitOK, h.run("uninstall", "--yes"), h.err.String())

	h.env.AssertFileContent(zshrc, "original\n")
	h.env.AssertNotExists(h.env.Paths.Root())
	assert.Contains(t, h.out.String(), "zprof was uninstalled")

	archives, err := afero.Glob(h.env.FS, filepath.Join(h.env.Paths.SafetySnapshotDir(), "*.tar.gz"))
	require.NoError(t, err)
	assert.Len(t, archives, 1)
}

func TestUninstallPromoteKeepBackups(t *testing.T) {
	h := newHarness(t)
	h.env.Install("work")
	h.env.WriteFile(filepath.Join(h.env.Paths.ProfileDir("work"), ".zprofile"), "# work profile\n", 0644)

	code := h.run("uninstall", "--profile", "work", "--keep-backups", "--no-safety-snapshot", "--yes", "-o", "yaml")
	require.Equal(t, ExitOK, code, h.err.String())

	var report map[string]interface{}
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &report))
	assert.Equal(t, "completed", report["status"])
	assert.Equal(t, "promote:work", report["restoration"])
	assert.NotContains(t, report, "safety_snapshot")

	h.env.AssertFileContent(h.env.HomeFile(".zshrc"), "# profile work\n")
	h.env.AssertExists(h.env.Paths.BackupsDir())
	h.env.AssertNotExists(h.env.Paths.ProfilesDir())
}

func TestUninstallUnknownProfile(t *testing.T) {
	h := newHarness(t)
	h.env.Install("work")

	assert.Equal(t, ExitError, h.run("uninstall", "--profile", "wrok", "--yes"))
	assert.Contains(t, h.err.String(), "PROFILE_NOT_FOUND")
	assert.Contains(t, h.err.String(), "Did you mean: work?")
	h.env.AssertExists(h.env.Paths.ProfileDir("work"))
}

func TestUninstallNotInstalled(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("uninstall", "--yes"))
	assert.Contains(t, h.out.String(), "not-installed")
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitError, h.run("verify", "-o", "json"))
	assert.Contains(t, h.err.String(), "INVALID_INPUT")
}

func TestHelpTopic(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("help", "recovery"))
	assert.Contains(t, h.out.String(), "Recovering by hand")
}

func TestUsageHeadings(t *testing.T) {
	heading := (&app{noColor: true}).usageFuncs()["heading"].(func(string) string)
	assert.Equal(t, "USAGE:", heading("usage:"))
	assert.Equal(t, "MISC:", heading("misc"))

	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("--help"))
	out := h.out.String()
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "FLAGS:")
	assert.NotContains(t, out, "\x1b[")
}
