package restore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/zprof/pkg/conflict"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/internal/hashutil"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/arthur-debert/zprof/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// takeSnapshot writes files into home, snapshots them, and returns the
// snapshot directory and manifest.
func takeSnapshot(t *testing.T, env *testutil.TestEnvironment, files map[string]string) (string, *snapshot.Manifest) {
	t.Helper()
	for rel, content := range files {
		env.WriteHomeFile(rel, content)
	}
	dir := env.Paths.PreInstallSnapshotDir()
	m, err := snapshot.NewCreator(env.FS, snapshot.Options{}).Create(env.Paths.Home(), dir)
	require.NoError(t, err)
	return dir, m
}

func TestRestore_RoundTrip(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile(env.HomeFile(".zshrc"), "export PATH=/a", 0640)
	dir, m := takeSnapshot(t, env, map[string]string{".zshenv": "export EDITOR=vi"})
	require.Len(t, m.Files, 2)

	// Tool installed: the originals are gone.
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshrc")))
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshenv")))

	outcome, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)
	assert.Len(t, outcome.Restored, 2)
	assert.Empty(t, outcome.Warnings)
	assert.Empty(t, outcome.Backups)

	for _, f := range m.Files {
		dest := env.HomeFile(f.RelativePath)
		assert.NoError(t, snapshot.VerifyChecksum(env.FS, dest, f.Checksum))
		assert.Equal(t, f.Mode(), env.Mode(dest), f.RelativePath)
	}
	env.AssertFileContent(env.HomeFile(".zshrc"), "export PATH=/a")
}

func TestRestore_ModifiedFileIsBackedUp(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, m := takeSnapshot(t, env, map[string]string{".zshrc": "export PATH=/a"})
	require.Len(t, m.Files, 1)
	assert.Equal(t, hashutil.Checksum([]byte("export PATH=/a")), m.Files[0].Checksum)

	env.WriteHomeFile(".zshrc", "export PATH=/b")

	outcome, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)

	env.AssertFileContent(env.HomeFile(".zshrc"), "export PATH=/a")
	env.AssertFileContent(env.HomeFile(".zshrc"+restore.BackupSuffix), "export PATH=/b")
	assert.NoError(t, snapshot.VerifyChecksum(env.FS, env.HomeFile(".zshrc"), m.Files[0].Checksum))
	assert.Equal(t, []restore.ConflictBackup{{
		Original: env.HomeFile(".zshrc"),
		Backup:   env.HomeFile(".zshrc" + restore.BackupSuffix),
	}}, outcome.Backups)
}

func TestRestore_UnchangedFileIsNotAConflict(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile(env.HomeFile(".zshrc"), "export PATH=/a", 0640)
	dir, _ := takeSnapshot(t, env, map[string]string{})
	require.NoError(t, env.FS.Chmod(env.HomeFile(".zshrc"), 0600))

	prompter := &testutil.MockPrompter{}
	engine := restore.NewEngine(env.FS, conflict.NewResolver(env.FS, prompter))

	for _, interactive := range []bool{false, false, true} {
		outcome, err := engine.Restore(env.Paths.Home(), dir, interactive)
		require.NoError(t, err)
		assert.Equal(t, []string{env.HomeFile(".zshrc")}, outcome.Restored)
		assert.Empty(t, outcome.Backups)
	}

	prompter.AssertNotCalled(t, "Choose", mock.Anything)
	env.AssertFileContent(env.HomeFile(".zshrc"), "export PATH=/a")
	assert.Equal(t, os.FileMode(0640), env.Mode(env.HomeFile(".zshrc")))
	env.AssertNotExists(env.HomeFile(".zshrc" + restore.BackupSuffix))
	env.AssertNotExists(env.HomeFile(".zshrc" + restore.BackupSuffix + ".1"))
}

func TestRestore_RollbackKeepsUnchangedFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "rc", ".zshenv": "env"})
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshenv")))

	// .zshrc is untouched and comes first; the .zshenv write fails.
	fault := testutil.NewFaultFS(env.FS).WithPermissionDenied(testutil.OpWrite, env.HomeFile(".zshenv"))
	_, err := restore.NewEngine(fault, nil).Restore(env.Paths.Home(), dir, false)
	require.Error(t, err)

	var restoreErr *restore.Error
	require.ErrorAs(t, err, &restoreErr)
	assert.True(t, restoreErr.RolledBack())
	env.AssertFileContent(env.HomeFile(".zshrc"), "rc")
}

func TestRestore_NeverOverwritesOlderBackup(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "orig"})
	env.WriteHomeFile(".zshrc", "second")
	env.WriteHomeFile(".zshrc"+restore.BackupSuffix, "first")

	_, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)

	env.AssertFileContent(env.HomeFile(".zshrc"+restore.BackupSuffix), "first")
	env.AssertFileContent(env.HomeFile(".zshrc"+restore.BackupSuffix+".1"), "second")
	env.AssertFileContent(env.HomeFile(".zshrc"), "orig")
}

func TestRestore_ConflictPolicies(t *testing.T) {
	tests := []struct {
		name       string
		choice     int
		wantRC     string
		wantBackup bool
	}{
		{name: "backup_then_overwrite", choice: 0, wantRC: "orig", wantBackup: true},
		{name: "overwrite", choice: 1, wantRC: "orig"},
		{name: "skip", choice: 2, wantRC: "changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "orig"})
			env.WriteHomeFile(".zshrc", "changed")

			prompter := &testutil.MockPrompter{}
			prompter.On("Choose", mock.Anything).Return(tt.choice, nil).Once()
			engine := restore.NewEngine(env.FS, conflict.NewResolver(env.FS, prompter))

			outcome, err := engine.Restore(env.Paths.Home(), dir, true)
			require.NoError(t, err)
			prompter.AssertExpectations(t)

			env.AssertFileContent(env.HomeFile(".zshrc"), tt.wantRC)
			env.AssertNotExists(env.HomeFile(".zshrc" + restore.RollbackSuffix))
			if tt.wantBackup {
				env.AssertFileContent(env.HomeFile(".zshrc"+restore.BackupSuffix), "changed")
			} else {
				env.AssertNotExists(env.HomeFile(".zshrc" + restore.BackupSuffix))
			}
			if tt.choice == 2 {
				assert.Equal(t, []string{".zshrc"}, outcome.Skipped)
				assert.Empty(t, outcome.Restored)
			}
		})
	}
}

func TestRestore_MissingPayloadIsAWarning(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "rc", ".zshenv": "env"})
	require.NoError(t, env.FS.Remove(filepath.Join(dir, ".zshrc")))
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshrc")))
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshenv")))

	outcome, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)

	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, ".zshrc", outcome.Warnings[0].RelativePath)
	assert.True(t, errors.IsErrorCode(outcome.Warnings[0].Err, errors.ErrFileMissing))
	env.AssertNotExists(env.HomeFile(".zshrc"))
	env.AssertFileContent(env.HomeFile(".zshenv"), "env")
}

func TestRestore_ChecksumMismatchIsAWarning(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "rc"})
	env.WriteFile(filepath.Join(dir, ".zshrc"), "bit rot", 0600)
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshrc")))

	outcome, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)

	require.Len(t, outcome.Warnings, 1)
	assert.True(t, errors.IsErrorCode(outcome.Warnings[0].Err, errors.ErrChecksumMismatch))
	assert.Equal(t, []string{env.HomeFile(".zshrc")}, outcome.Restored)
	env.AssertFileContent(env.HomeFile(".zshrc"), "bit rot")
}

func TestRestore_NoSnapshot(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	_, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), env.Paths.PreInstallSnapshotDir(), false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMissing))
}

func TestRestore_HardFailureRollsBack(t *testing.T) {
	for _, tt := range []struct {
		name   string
		choice int
	}{
		{name: "backup_then_overwrite", choice: 0},
		{name: "overwrite", choice: 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			dir, m := takeSnapshot(t, env, map[string]string{
				".zshrc":    "orig rc",
				".zshenv":   "orig env",
				".zprofile": "orig profile",
			})
			require.Len(t, m.Files, 3)

			// Pre-restore state: two modified files and one absent.
			env.WriteHomeFile(".zshrc", "mod rc")
			require.NoError(t, env.FS.Remove(env.HomeFile(".zshenv")))
			env.WriteHomeFile(".zprofile", "mod profile")

			// .zprofile is last in manifest order.
			fault := testutil.NewFaultFS(env.FS).WithPermissionDenied(testutil.OpWrite, env.HomeFile(".zprofile"))
			prompter := &testutil.MockPrompter{}
			prompter.On("Choose", mock.Anything).Return(tt.choice, nil)
			engine := restore.NewEngine(fault, conflict.NewResolver(fault, prompter))

			outcome, err := engine.Restore(env.Paths.Home(), dir, true)
			require.Error(t, err)
			assert.Nil(t, outcome)

			var restoreErr *restore.Error
			require.ErrorAs(t, err, &restoreErr)
			assert.True(t, restoreErr.RolledBack())
			assert.True(t, errors.IsErrorCode(err, errors.ErrPermissionDenied))

			env.AssertFileContent(env.HomeFile(".zshrc"), "mod rc")
			env.AssertNotExists(env.HomeFile(".zshenv"))
			env.AssertFileContent(env.HomeFile(".zprofile"), "mod profile")
			for _, rel := range []string{".zshrc", ".zprofile"} {
				env.AssertNotExists(env.HomeFile(rel + restore.BackupSuffix))
				env.AssertNotExists(env.HomeFile(rel + restore.RollbackSuffix))
			}
		})
	}
}

func TestRestore_RollbackFailureGivesManualRecovery(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dir, _ := takeSnapshot(t, env, map[string]string{".zshrc": "orig rc", ".zshenv": "orig env"})
	env.WriteHomeFile(".zshrc", "mod rc")
	require.NoError(t, env.FS.Remove(env.HomeFile(".zshenv")))

	backup := env.HomeFile(".zshrc" + restore.BackupSuffix)
	fault := testutil.NewFaultFS(env.FS).
		WithPermissionDenied(testutil.OpWrite, env.HomeFile(".zshenv")).
		WithPermissionDenied(testutil.OpRename, backup)

	_, err := restore.NewEngine(fault, nil).Restore(env.Paths.Home(), dir, false)
	require.Error(t, err)

	var restoreErr *restore.Error
	require.ErrorAs(t, err, &restoreErr)
	assert.False(t, restoreErr.RolledBack())
	assert.True(t, errors.IsErrorCode(restoreErr.RollbackErr, errors.ErrRollbackFailure))

	// The backup survives for the user to recover from.
	env.AssertFileContent(backup, "mod rc")

	guide := restoreErr.ManualRecovery()
	assert.Contains(t, guide, dir)
	assert.Contains(t, guide, restore.BackupSuffix)
	assert.Contains(t, guide, "Rollback failures")
}

func TestRestore_RealFilesystemKeepsModes(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteFile(env.HomeFile(".zlogin"), "echo hi", 0600)
	dir, _ := takeSnapshot(t, env, map[string]string{})
	require.NoError(t, os.Remove(env.HomeFile(".zlogin")))

	_, err := restore.NewEngine(env.FS, nil).Restore(env.Paths.Home(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), env.Mode(env.HomeFile(".zlogin")))
}
