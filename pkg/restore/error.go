package restore

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/zprof/pkg/errors"
)

// Error is returned when a restore stops on a hard failure. Cause is the
// failure that stopped it; RollbackErr is nil when the rollback that
// followed completed.
type Error struct {
	Cause       error
	RollbackErr error
	SnapshotDir string
	HomeDir     string
}

func (e *Error) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("restore failed and rollback is incomplete: %v; %v", e.Cause, e.RollbackErr)
	}
	return fmt.Sprintf("restore failed, changes were rolled back: %v", e.Cause)
}

// Unwrap exposes both the cause and the rollback failure to errors.Is and
// errors.As, cause first.
func (e *Error) Unwrap() []error {
	if e.RollbackErr != nil {
		return []error{e.Cause, e.RollbackErr}
	}
	return []error{e.Cause}
}

// RolledBack reports whether the home directory is back to its
// pre-restore state.
func (e *Error) RolledBack() bool {
	return e.RollbackErr == nil
}

// ManualRecovery returns markdown instructions for restoring the original
// shell files by hand.
func (e *Error) ManualRecovery() string {
	var b strings.Builder

	b.WriteString("# Manual recovery\n\n")
	if e.RolledBack() {
		b.WriteString("The restore was rolled back and your home directory is unchanged. ")
		b.WriteString("You can retry, or copy the files by hand.\n\n")
	} else {
		b.WriteString("The restore failed and **could not be fully rolled back**. ")
		b.WriteString("Nothing else will be removed until you recover.\n\n")
	}

	fmt.Fprintf(&b, "Your original shell files are intact in the pre-install snapshot:\n\n```\n%s\n```\n\n", e.SnapshotDir)
	fmt.Fprintf(&b, "Copy each file from there into `%s`, keeping its name.\n\n", e.HomeDir)
	fmt.Fprintf(&b, "Files ending in `%s` or `%s` next to your shell files hold the content that was there before the restore. ", BackupSuffix, RollbackSuffix)
	b.WriteString("Rename one back to drop the suffix if you want that version instead.\n")

	if failures, ok := errors.GetErrorDetails(e.RollbackErr)["failures"].([]string); ok && len(failures) > 0 {
		b.WriteString("\n## Rollback failures\n\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}
