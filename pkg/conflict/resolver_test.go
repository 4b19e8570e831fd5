package conflict_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/zprof/pkg/conflict"
	"github.com/arthur-debert/zprof/pkg/testutil"
	"github.com/arthur-debert/zprof/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolve_MissingDestinationOverwrites(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	prompter := &testutil.MockPrompter{}

	for _, interactive := range []bool{true, false} {
		policy, err := conflict.NewResolver(env.FS, prompter).Resolve(env.HomeFile(".zshrc"), interactive)
		require.NoError(t, err)
		assert.Equal(t, conflict.Overwrite, policy)
	}
	prompter.AssertNotCalled(t, "Choose", mock.Anything)
}

func TestResolve_NonInteractiveBacksUp(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dest := env.WriteHomeFile(".zshrc", "mine")
	prompter := &testutil.MockPrompter{}

	policy, err := conflict.NewResolver(env.FS, prompter).Resolve(dest, false)
	require.NoError(t, err)
	assert.Equal(t, conflict.BackupThenOverwrite, policy)
	prompter.AssertNotCalled(t, "Choose", mock.Anything)
}

func TestResolve_Interactive(t *testing.T) {
	tests := []struct {
		name   string
		answer int
		err    error
		want   conflict.Policy
	}{
		{name: "backup", answer: 0, want: conflict.BackupThenOverwrite},
		{name: "overwrite", answer: 1, want: conflict.Overwrite},
		{name: "skip", answer: 2, want: conflict.Skip},
		{name: "out_of_range", answer: 7, want: conflict.BackupThenOverwrite},
		{name: "negative", answer: -1, want: conflict.BackupThenOverwrite},
		{name: "aborted", answer: 0, err: stderrors.New("interrupted"), want: conflict.BackupThenOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			dest := env.WriteHomeFile(".zshrc", "mine")

			prompter := &testutil.MockPrompter{}
			prompter.On("Choose", mock.MatchedBy(func(req types.ChoiceRequest) bool {
				return len(req.Options) == 3 && req.Default == 0
			})).Return(tt.answer, tt.err).Once()

			policy, err := conflict.NewResolver(env.FS, prompter).Resolve(dest, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy)
			prompter.AssertExpectations(t)
		})
	}
}

func TestResolve_NilPrompterIsSafe(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	dest := env.WriteHomeFile(".zshrc", "mine")

	policy, err := conflict.NewResolver(env.FS, nil).Resolve(dest, true)
	require.NoError(t, err)
	assert.Equal(t, conflict.BackupThenOverwrite, policy)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "overwrite", conflict.Overwrite.String())
	assert.Equal(t, "skip", conflict.Skip.String())
	assert.Equal(t, "backup-then-overwrite", conflict.BackupThenOverwrite.String())
}
