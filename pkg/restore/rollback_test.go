package restore_test

import (
	"testing"

	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollback_RestoresBackupsAndRemovesWrites(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	rc := env.WriteHomeFile(".zshrc", "restored")
	rcBackup := env.WriteHomeFile(".zshrc"+restore.BackupSuffix, "before")
	envFile := env.WriteHomeFile(".zshenv", "restored")

	err := restore.Rollback(env.FS,
		[]string{rc, envFile, env.HomeFile(".zlogin")},
		[]restore.ConflictBackup{{Original: rc, Backup: rcBackup}},
	)
	require.NoError(t, err)

	env.AssertFileContent(rc, "before")
	env.AssertNotExists(rcBackup)
	env.AssertNotExists(envFile)
}

func TestRollback_AttemptsEveryStep(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	a := env.WriteHomeFile(".zshrc", "a")
	b := env.WriteHomeFile(".zshenv", "b")
	c := env.WriteHomeFile(".zprofile", "c")
	cBackup := env.WriteHomeFile(".zprofile"+restore.BackupSuffix, "c before")

	fault := testutil.NewFaultFS(env.FS).
		WithPermissionDenied(testutil.OpRemove, a).
		WithPermissionDenied(testutil.OpRemove, b)

	err := restore.Rollback(fault, []string{a, b, c}, []restore.ConflictBackup{{Original: c, Backup: cBackup}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRollbackFailure))

	failures, ok := errors.GetErrorDetails(err)["failures"].([]string)
	require.True(t, ok)
	assert.Len(t, failures, 2)

	// Steps after the failures still ran.
	env.AssertFileContent(c, "c before")
	env.AssertNotExists(cBackup)
}

func TestRollback_NothingToDo(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	assert.NoError(t, restore.Rollback(env.FS, nil, nil))
}
