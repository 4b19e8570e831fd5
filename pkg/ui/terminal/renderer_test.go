package terminal_test

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/zprof/pkg/archive"
	"github.com/arthur-debert/zprof/pkg/cleanup"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/arthur-debert/zprof/pkg/ui/terminal"
	"github.com/arthur-debert/zprof/pkg/uninstall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlain(t *testing.T) (*terminal.Renderer, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	r, err := terminal.New(buf, false)
	require.NoError(t, err)
	return r, buf
}

func TestRenderManifest(t *testing.T) {
	r, buf := newPlain(t)
	m := &snapshot.Manifest{
		ID:          "7d4c",
		CreatedAt:   time.Now().Add(-2 * time.Hour),
		Environment: snapshot.Environment{ShellVersion: "zsh 5.9", OS: "linux", ToolVersion: "dev"},
		DetectedFramework: &snapshot.Framework{
			Name:        "oh-my-zsh",
			InstallPath: "/home/u/.oh-my-zsh",
		},
		Files: []snapshot.BackedUpFile{
			{RelativePath: ".zshrc", Checksum: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", Permissions: 0o644},
		},
	}

	require.NoError(t, r.RenderResult(m))
	out := buf.String()
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "oh-my-zsh")
	assert.Contains(t, out, ".zshrc")
	assert.Contains(t, out, "0644  sha256:9f86d081884c")
}

func TestRenderVerifyReport(t *testing.T) {
	r, buf := newPlain(t)
	report := &snapshot.VerifyReport{
		SnapshotDir: "/snap",
		Files: []snapshot.FileVerification{
			{RelativePath: ".zshrc", Status: snapshot.StatusOK},
			{RelativePath: ".zshenv", Status: snapshot.StatusMissing},
		},
	}

	require.NoError(t, r.RenderResult(report))
	out := buf.String()
	assert.Contains(t, out, ".zshenv")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "damaged or missing")
}

func TestRenderUninstallReport(t *testing.T) {
	r, buf := newPlain(t)
	report := &uninstall.Report{
		Status:         uninstall.StatusCompleted,
		Restoration:    "original",
		SafetySnapshot: &archive.Result{Path: "/home/u/zprof-uninstall-1.tar.gz", Size: 2048, Files: 3},
		Restore: &restore.Outcome{
			SnapshotDir: "/snap",
			Restored:    []string{"/home/u/.zshrc", "/home/u/.zprofile"},
			Backups:     []restore.ConflictBackup{{Original: "/home/u/.zshrc", Backup: "/home/u/.zshrc.zprof-backup"}},
			Skipped:     []string{".zlogin"},
		},
		Cleanup: &cleanup.Report{
			Removed: []string{"/home/u/.zsh-profiles"},
			Errors:  []cleanup.Failure{{Path: "/home/u/.zshenv", Message: "permission denied"}},
		},
	}

	require.NoError(t, r.RenderResult(report))
	out := buf.String()
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, ".zshrc.zprof-backup")
	assert.Contains(t, out, ".zlogin")
	assert.Contains(t, out, "remove them manually")
	assert.Contains(t, out, "zprof was uninstalled")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderErrorSuggestions(t *testing.T) {
	r, buf := newPlain(t)
	err := errors.New(errors.ErrProfileNotFound, "profile \"wrok\" not found").
		WithDetail("suggestions", []string{"work"})

	require.NoError(t, r.RenderError(err))
	assert.Contains(t, buf.String(), "Did you mean: work?")
}

func TestRenderErrorManualRecovery(t *testing.T) {
	r, buf := newPlain(t)
	err := &restore.Error{
		Cause:       stderrors.New("disk full"),
		RollbackErr: errors.Aggregate(errors.ErrRollbackFailure, "rollback incomplete", []error{stderrors.New("rename /home/u/.zshrc.zprof-backup")}),
		SnapshotDir: "/home/u/.zsh-profiles/backups/pre-install",
		HomeDir:     "/home/u",
	}

	require.NoError(t, r.RenderError(err))
	out := buf.String()
	assert.Contains(t, out, "# Manual recovery")
	assert.Contains(t, out, "/home/u/.zsh-profiles/backups/pre-install")
	assert.Contains(t, out, "rename /home/u/.zshrc.zprof-backup")
}
