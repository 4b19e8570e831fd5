package uninstall

import (
	"fmt"
	"time"

	"github.com/arthur-debert/zprof/pkg/archive"
	"github.com/arthur-debert/zprof/pkg/cleanup"
	"github.com/arthur-debert/zprof/pkg/conflict"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/paths"
	"github.com/arthur-debert/zprof/pkg/probe"
	"github.com/arthur-debert/zprof/pkg/profiles"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/types"
	"github.com/spf13/afero"
)

// State names a step of the uninstall flow.
type State string

const (
	StateValidatePreconditions State = "validate-preconditions"
	StateSelectRestoration     State = "select-restoration"
	StateConfirmDestructive    State = "confirm-destructive"
	StateSafetySnapshot        State = "safety-snapshot"
	StateExecuteRestoration    State = "execute-restoration"
	StateCleanup               State = "cleanup"
	StateReport                State = "report"
)

// Status is how the flow ended.
type Status string

const (
	StatusCompleted     Status = "completed"
	StatusNotInstalled  Status = "not-installed"
	StatusCancelled     Status = "cancelled"
	StatusRestoreFailed Status = "restore-failed"
)

// Options drive one uninstall.
type Options struct {
	// Restoration is nil to select one: by prompting when Interactive,
	// otherwise original when a snapshot exists and clean when not.
	Restoration    Restoration
	KeepBackups    bool
	SafetySnapshot bool
	Interactive    bool
	// AssumeYes answers the destructive confirmation.
	AssumeYes bool
}

// Deps are the injected capabilities of an Orchestrator.
type Deps struct {
	Prompter types.Prompter
	Probe    probe.Probe
	Now      func() time.Time
}

// Report is the terminal state of an uninstall.
type Report struct {
	Status         Status                  `yaml:"status"`
	Restoration    string                  `yaml:"restoration,omitempty"`
	Preconditions  *Preconditions          `yaml:"preconditions"`
	SafetySnapshot *archive.Result         `yaml:"safety_snapshot,omitempty"`
	Restore        *restore.Outcome        `yaml:"restore,omitempty"`
	Promotion      *profiles.PromoteResult `yaml:"promotion,omitempty"`
	Cleanup        *cleanup.Report         `yaml:"cleanup,omitempty"`
	Steps          []State                 `yaml:"steps"`
	Message        string                  `yaml:"message,omitempty"`
}

// Orchestrator runs the uninstall flow against one home directory.
type Orchestrator struct {
	fs       afero.Fs
	paths    paths.Paths
	prompter types.Prompter
	probe    probe.Probe
	now      func() time.Time
}

// New creates an Orchestrator. Missing deps default to a prompter that
// declines, a no-op probe and time.Now.
func New(fsys afero.Fs, p paths.Paths, deps Deps) *Orchestrator {
	o := &Orchestrator{fs: fsys, paths: p, prompter: deps.Prompter, probe: deps.Probe, now: deps.Now}
	if o.prompter == nil {
		o.prompter = types.DeclineAll{}
	}
	if o.probe == nil {
		o.probe = probe.Noop{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Run executes the flow. "Not installed" and a declined confirmation end
// early with a Report and no error. A restoration failure returns both the
// Report so far and the *restore.Error; cleanup is not run in that case.
func (o *Orchestrator) Run(opts Options) (*Report, error) {
	logger := logging.GetLogger("uninstall")
	done := logging.LogOperationStart(logger, "uninstall")
	defer done()

	report := &Report{}
	enter := func(s State) {
		logger.Debug().Str("state", string(s)).Msg("Entering state")
		report.Steps = append(report.Steps, s)
	}

	enter(StateValidatePreconditions)
	pre := ValidatePreconditions(o.fs, o.paths, o.probe)
	report.Preconditions = pre
	for _, w := range pre.Warnings {
		logger.Warn().Msg(w)
	}
	if !pre.Installed {
		enter(StateReport)
		report.Status = StatusNotInstalled
		report.Message = "zprof is not installed at " + o.paths.Root() + ", nothing to do"
		return report, nil
	}
	if !pre.CanProceed() {
		return nil, errors.Newf(errors.ErrPermissionDenied, "home directory %s is not usable", o.paths.Home()).
			WithDetail("path", o.paths.Home())
	}

	enter(StateSelectRestoration)
	restoration, err := o.SelectRestoration(pre, opts)
	if err != nil {
		return nil, err
	}
	report.Restoration = restoration.String()
	logger.Info().Str("restoration", report.Restoration).Msg("Restoration selected")

	enter(StateConfirmDestructive)
	if !o.confirm(restoration, opts) {
		enter(StateReport)
		report.Status = StatusCancelled
		report.Message = "uninstall cancelled, nothing was changed"
		return report, nil
	}

	if opts.SafetySnapshot {
		enter(StateSafetySnapshot)
		result, err := archive.Create(o.fs, o.paths.Root(), o.paths.SafetySnapshotDir(), o.now())
		if err != nil {
			return nil, err
		}
		report.SafetySnapshot = result
	}

	enter(StateExecuteRestoration)
	if err := o.execute(restoration, opts, report); err != nil {
		enter(StateReport)
		report.Status = StatusRestoreFailed
		report.Message = "restoration failed, the managed tree was left in place"
		return report, err
	}

	enter(StateCleanup)
	report.Cleanup = cleanup.Cleanup(o.fs, o.paths, opts.KeepBackups)

	enter(StateReport)
	report.Status = StatusCompleted
	if !report.Cleanup.IsSuccessful() {
		report.Message = "uninstalled, but some paths could not be removed and may need manual removal"
	}
	return report, nil
}

// SelectRestoration validates an explicit choice or selects one.
func (o *Orchestrator) SelectRestoration(pre *Preconditions, opts Options) (Restoration, error) {
	if opts.Restoration != nil {
		return o.checkRestoration(pre, opts.Restoration)
	}
	if !opts.Interactive {
		if pre.SnapshotPresent {
			return RestoreOriginal{}, nil
		}
		return CleanRemoval{}, nil
	}

	var options []string
	var choices []Restoration
	if pre.SnapshotPresent {
		options = append(options, "Restore my original shell configuration")
		choices = append(choices, RestoreOriginal{})
	}
	if len(pre.Profiles) > 0 {
		options = append(options, "Keep one profile as my shell configuration")
		choices = append(choices, PromoteProfile{})
	}
	options = append(options, "Remove everything, restore nothing")
	choices = append(choices, CleanRemoval{})

	idx, err := o.prompter.Choose(types.ChoiceRequest{
		ID:      "uninstall:restoration",
		Title:   "What should your shell configuration be after uninstalling?",
		Options: options,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "restoration selection aborted")
	}
	if idx < 0 || idx >= len(choices) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid restoration choice %d", idx)
	}

	if _, ok := choices[idx].(PromoteProfile); !ok {
		return choices[idx], nil
	}
	idx, err = o.prompter.Choose(types.ChoiceRequest{
		ID:      "uninstall:profile",
		Title:   "Which profile should become your shell configuration?",
		Options: pre.Profiles,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "profile selection aborted")
	}
	if idx < 0 || idx >= len(pre.Profiles) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid profile choice %d", idx)
	}
	return PromoteProfile{Name: pre.Profiles[idx]}, nil
}

func (o *Orchestrator) checkRestoration(pre *Preconditions, r Restoration) (Restoration, error) {
	switch r := r.(type) {
	case RestoreOriginal:
		if !pre.SnapshotPresent {
			return nil, errors.Newf(errors.ErrManifestMissing,
				"no pre-install snapshot at %s, choose promote or clean", o.paths.PreInstallSnapshotDir())
		}
	case PromoteProfile:
		if len(pre.Profiles) == 0 {
			return nil, errors.New(errors.ErrProfileNotFound, "there are no profiles to promote")
		}
		if err := profiles.Find(o.fs, o.paths, r.Name); err != nil {
			return nil, err
		}
	case CleanRemoval:
	default:
		return nil, errors.Newf(errors.ErrInternal, "unhandled restoration %T", r)
	}
	return r, nil
}

func (o *Orchestrator) confirm(r Restoration, opts Options) bool {
	logger := logging.GetLogger("uninstall")
	if opts.AssumeYes {
		return true
	}
	if !opts.Interactive {
		logger.Warn().Msg("Uninstall needs confirmation, refusing to proceed non-interactively")
		return false
	}

	items := []string{"remove " + o.paths.Root()}
	if opts.KeepBackups {
		items = []string{"remove profiles, shared data, cache and settings under " + o.paths.Root() + " (backups are kept)"}
	}
	switch r := r.(type) {
	case RestoreOriginal:
		items = append(items, "restore the shell files from "+o.paths.PreInstallSnapshotDir())
	case PromoteProfile:
		items = append(items, fmt.Sprintf("copy the files of profile %q into %s", r.Name, o.paths.Home()))
	}

	ok, err := o.prompter.Confirm(types.ConfirmationRequest{
		ID:          "uninstall:confirm",
		Title:       "Uninstall zprof?",
		Description: "This cannot be undone except from the safety snapshot.",
		Items:       items,
		Default:     false,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Confirmation failed, treating as no")
		return false
	}
	return ok
}

func (o *Orchestrator) execute(r Restoration, opts Options, report *Report) error {
	switch r := r.(type) {
	case RestoreOriginal:
		resolver := conflict.NewResolver(o.fs, o.prompter)
		outcome, err := restore.NewEngine(o.fs, resolver).Restore(o.paths.Home(), o.paths.PreInstallSnapshotDir(), opts.Interactive)
		if err != nil {
			return err
		}
		report.Restore = outcome
	case PromoteProfile:
		result, err := profiles.Promote(o.fs, o.paths, r.Name)
		if err != nil {
			return err
		}
		report.Promotion = result
	case CleanRemoval:
	default:
		return errors.Newf(errors.ErrInternal, "unhandled restoration %T", r)
	}
	return nil
}
