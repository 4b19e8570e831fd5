package zprof

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Manage zsh profiles without losing your shell files"
	MsgSnapshotShort   = "Take or show the pre-install snapshot"
	MsgVerifyShort     = "Check the pre-install snapshot for damage"
	MsgRestoreShort    = "Restore the pre-install snapshot into your home directory"
	MsgUninstallShort  = "Remove zprof and restore a shell configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSnapshotNone     = "No pre-install snapshot found. Run [bold]zprof snapshot[/bold] to take one."
	MsgNotInstalled     = "zprof is not installed, nothing to uninstall."
	MsgVersionFormat    = "zprof version %s\n"
	MsgVersionCommit    = "  commit: %s\n"
	MsgVersionBuilt     = "  built:  %s\n"
	MsgSnapshotDamaged  = "the pre-install snapshot is damaged"
	MsgUninstallAborted = "uninstall cancelled, nothing was changed"

	// Flag descriptions
	MsgFlagVerbose          = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagNoColor          = "Disable colored output"
	MsgFlagOutput           = "Output format: auto, term, text or yaml"
	MsgFlagShow             = "Show the existing snapshot instead of taking one"
	MsgFlagYes              = "Answer yes to confirmations and back up conflicting files"
	MsgFlagRestore          = "What to restore: original, promote or clean"
	MsgFlagProfile          = "Profile to promote (implies --restore promote)"
	MsgFlagKeepBackups      = "Keep the backups directory, including the pre-install snapshot"
	MsgFlagNoSafetySnapshot = "Do not write a safety copy of the managed tree first"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/snapshot-long.txt
	msgSnapshotLongRaw string
	MsgSnapshotLong    = strings.TrimSpace(msgSnapshotLongRaw)

	//go:embed msgs/verify-long.txt
	msgVerifyLongRaw string
	MsgVerifyLong    = strings.TrimSpace(msgVerifyLongRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/uninstall-long.txt
	msgUninstallLongRaw string
	MsgUninstallLong    = strings.TrimSpace(msgUninstallLongRaw)

	//go:embed msgs/uninstall-example.txt
	msgUninstallExampleRaw string
	MsgUninstallExample    = strings.TrimRight(msgUninstallExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
