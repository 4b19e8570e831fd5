package conflict

import (
	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/types"
	"github.com/spf13/afero"
)

// Policy is the handling chosen for one destination file.
type Policy int

const (
	// BackupThenOverwrite moves the existing file aside before writing.
	// It is the zero value so an uninitialized Policy is the safe one.
	BackupThenOverwrite Policy = iota
	Overwrite
	Skip
)

func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	default:
		return "backup-then-overwrite"
	}
}

// Choices are offered in this order; indexes map to choicePolicies.
var Choices = []string{
	"Back up and restore",
	"Overwrite",
	"Skip this file",
}

var choicePolicies = []Policy{BackupThenOverwrite, Overwrite, Skip}

// Resolver maps a destination to a Policy.
type Resolver struct {
	fs       afero.Fs
	prompter types.Prompter
}

// NewResolver returns a Resolver. A nil prompter declines everything,
// which resolves every interactive conflict to BackupThenOverwrite.
func NewResolver(fsys afero.Fs, prompter types.Prompter) *Resolver {
	if prompter == nil {
		prompter = types.DeclineAll{}
	}
	return &Resolver{fs: fsys, prompter: prompter}
}

// Resolve returns the policy for writing to dest. Callers only ask about
// destinations whose content differs from what they are about to write.
func (r *Resolver) Resolve(dest string, interactive bool) (Policy, error) {
	logger := logging.GetLogger("conflict")

	exists, err := filesystem.Exists(r.fs, dest)
	if err != nil {
		return BackupThenOverwrite, err
	}
	if !exists {
		return Overwrite, nil
	}
	if !interactive {
		logger.Debug().Str("path", dest).Msg("Existing file, backing up (non-interactive)")
		return BackupThenOverwrite, nil
	}

	idx, err := r.prompter.Choose(types.ChoiceRequest{
		ID:      "conflict:" + dest,
		Title:   dest + " already exists",
		Options: Choices,
		Default: 0,
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", dest).Msg("Prompt failed, backing up existing file")
		return BackupThenOverwrite, nil
	}
	if idx < 0 || idx >= len(choicePolicies) {
		logger.Warn().Int("choice", idx).Str("path", dest).Msg("Unrecognized choice, backing up existing file")
		return BackupThenOverwrite, nil
	}

	policy := choicePolicies[idx]
	logger.Debug().Str("path", dest).Stringer("policy", policy).Msg("Conflict resolved")
	return policy, nil
}
