package zprof

import (
	"fmt"

	"github.com/arthur-debert/zprof/internal/version"
	"github.com/arthur-debert/zprof/pkg/conflict"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/logging"
	"github.com/arthur-debert/zprof/pkg/profiles"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/arthur-debert/zprof/pkg/uninstall"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   MsgSnapshotShort,
		Long:    MsgSnapshotLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(nil); err != nil {
				return err
			}
			dir := a.paths.PreInstallSnapshotDir()

			if show {
				m, err := snapshot.ValidateSnapshot(a.fs, dir)
				if errors.IsErrorCode(err, errors.ErrManifestMissing) {
					r, rerr := a.renderer(a.out)
					if rerr != nil {
						return rerr
					}
					return r.RenderMessage(MsgSnapshotNone)
				}
				if err != nil {
					return err
				}
				return a.render(m)
			}

			creator := snapshot.NewCreator(a.fs, snapshot.Options{Probe: a.probe, Now: a.now})
			m, err := creator.Create(a.paths.Home(), dir)
			if err != nil {
				return err
			}
			return a.render(m)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, MsgFlagShow)
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Short:   MsgVerifyShort,
		Long:    MsgVerifyLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(nil); err != nil {
				return err
			}
			dir := a.paths.PreInstallSnapshotDir()
			report, err := snapshot.Verify(a.fs, dir)
			if err != nil {
				return err
			}
			if err := a.render(report); err != nil {
				return err
			}
			if !report.IsIntact() {
				return errors.New(errors.ErrChecksumMismatch, MsgSnapshotDamaged).WithDetail("path", dir)
			}
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "restore",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(nil); err != nil {
				return err
			}
			interactive := a.interactive() && !yes

			engine := restore.NewEngine(a.fs, conflict.NewResolver(a.fs, a.prompter()))
			outcome, err := engine.Restore(a.paths.Home(), a.paths.PreInstallSnapshotDir(), interactive)
			if err != nil {
				return err
			}
			return a.render(outcome)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newUninstallCmd(a *app) *cobra.Command {
	var (
		restoration      string
		profile          string
		keepBackups      bool
		noSafetySnapshot bool
		yes              bool
	)

	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   MsgUninstallShort,
		Long:    MsgUninstallLong,
		Example: MsgUninstallExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("keep-backups") {
				overrides["uninstall.keep_backups"] = keepBackups
			}
			if noSafetySnapshot {
				overrides["uninstall.safety_snapshot"] = false
			}
			if err := a.load(overrides); err != nil {
				return err
			}

			choice, err := uninstall.ParseRestoration(restoration, profile)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.uninstall")
			logger.Info().
				Str("restore", restoration).
				Str("profile", profile).
				Bool("keepBackups", a.cfg.Uninstall.KeepBackups).
				Bool("safetySnapshot", a.cfg.Uninstall.SafetySnapshot).
				Msg("Starting uninstall")

			orchestrator := uninstall.New(a.fs, a.paths, uninstall.Deps{
				Prompter: a.prompter(),
				Probe:    a.probe,
				Now:      a.now,
			})
			report, runErr := orchestrator.Run(uninstall.Options{
				Restoration:    choice,
				KeepBackups:    a.cfg.Uninstall.KeepBackups,
				SafetySnapshot: a.cfg.Uninstall.SafetySnapshot,
				Interactive:    a.interactive(),
				AssumeYes:      yes,
			})
			if report != nil {
				if err := a.render(report); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			if report.Status == uninstall.StatusCancelled {
				return errors.New(errors.ErrCancelled, MsgUninstallAborted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&restoration, "restore", "", MsgFlagRestore)
	cmd.Flags().StringVar(&profile, "profile", "", MsgFlagProfile)
	cmd.Flags().BoolVar(&keepBackups, "keep-backups", false, MsgFlagKeepBackups)
	cmd.Flags().BoolVar(&noSafetySnapshot, "no-safety-snapshot", false, MsgFlagNoSafetySnapshot)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)

	_ = cmd.RegisterFlagCompletionFunc("restore", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"original", "promote", "clean"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("profile", profileNamesCompletion(a))
	return cmd
}

// profileNamesCompletion provides shell completion for profile names
func profileNamesCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if err := a.load(nil); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names, err := profiles.List(a.fs, a.paths)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgVersionCommit, version.Commit)
			fmt.Fprintf(out, MsgVersionBuilt, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}
