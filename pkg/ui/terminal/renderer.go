// Package terminal renders zprof results for people: styled when color is
// enabled, plain otherwise.
package terminal

import (
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/zprof/pkg/cleanup"
	"github.com/arthur-debert/zprof/pkg/errors"
	"github.com/arthur-debert/zprof/pkg/profiles"
	"github.com/arthur-debert/zprof/pkg/restore"
	"github.com/arthur-debert/zprof/pkg/snapshot"
	"github.com/arthur-debert/zprof/pkg/style"
	"github.com/arthur-debert/zprof/pkg/ui/markdown"
	"github.com/arthur-debert/zprof/pkg/uninstall"
	"github.com/dustin/go-humanize"
)

// Renderer writes human-readable output.
type Renderer struct {
	output   io.Writer
	markdown markdown.Renderer
}

// New creates a terminal renderer. With color false all styling is
// disabled and markdown is printed as-is.
func New(w io.Writer, color bool) (*Renderer, error) {
	if !color {
		style.DisableColor()
	}
	return &Renderer{output: w, markdown: markdown.New(color)}, nil
}

func (r *Renderer) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.output, s)
}

// RenderResult renders any zprof result type.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *snapshot.Manifest:
		r.renderManifest(v)
	case *snapshot.VerifyReport:
		r.renderVerify(v)
	case *restore.Outcome:
		r.renderOutcome(v)
	case *uninstall.Preconditions:
		r.renderPreconditions(v)
	case *uninstall.Report:
		r.renderReport(v)
	default:
		r.printf("%v\n", v)
	}
	return nil
}

// RenderError renders an error, with recovery guidance when there is any.
func (r *Renderer) RenderError(err error) error {
	r.println(style.ErrorIndicator + " " + style.ErrorStyle.Render("Error:") + " " + err.Error())

	details := errors.GetErrorDetails(err)
	if suggestions, ok := details["suggestions"].([]string); ok && len(suggestions) > 0 {
		r.println("  Did you mean: " + style.ProfileStyle.Render(strings.Join(suggestions, ", ")) + "?")
	}

	var restoreErr *restore.Error
	if stderrors.As(err, &restoreErr) {
		r.println("")
		fmt.Fprint(r.output, r.markdown.Render(restoreErr.ManualRecovery()))
	}
	return nil
}

// RenderMessage renders a simple message. It may carry [tag]..[/tag]
// markup from the style package.
func (r *Renderer) RenderMessage(msg string) error {
	r.println(style.InfoIndicator + " " + style.Render(msg))
	return nil
}

func (r *Renderer) renderManifest(m *snapshot.Manifest) {
	r.println(style.TitleStyle.Render("Pre-install snapshot"))
	r.printf("  %-10s %s\n", "id", m.ID)
	r.printf("  %-10s %s (%s)\n", "created", m.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(m.CreatedAt))
	r.printf("  %-10s %s\n", "shell", m.Environment.ShellVersion)
	r.printf("  %-10s %s\n", "os", m.Environment.OS)
	r.printf("  %-10s %s\n", "zprof", m.Environment.ToolVersion)
	if fw := m.DetectedFramework; fw != nil {
		r.printf("  %-10s %s %s\n", "framework", style.Bold(fw.Name), style.PathStyle.Render(fw.InstallPath))
	}
	r.println("")
	if len(m.Files) == 0 {
		r.println(style.MutedStyle.Render("  No shell files were present at install time"))
		return
	}
	r.println(style.SubtitleStyle.Render("Files"))
	for _, f := range m.Files {
		r.println(style.StatusLine(style.StatusOK, f.RelativePath,
			fmt.Sprintf("%04o  sha256:%s", f.Mode().Perm(), shortSum(f.Checksum))))
	}
}

func (r *Renderer) renderVerify(v *snapshot.VerifyReport) {
	r.println(style.TitleStyle.Render("Snapshot verification"))
	r.println("  " + style.PathStyle.Render(v.SnapshotDir))
	r.println("")
	for _, f := range v.Files {
		st := style.StatusOK
		switch f.Status {
		case snapshot.StatusMismatch:
			st = style.StatusWarning
		case snapshot.StatusMissing, snapshot.StatusUnreadable:
			st = style.StatusError
		}
		r.println(style.StatusLine(st, f.RelativePath, string(f.Status)))
	}
	r.println("")
	if v.IsIntact() {
		r.println(style.SuccessIndicator + " " + fmt.Sprintf("All %d files intact", len(v.Files)))
	} else {
		r.println(style.WarningIndicator + " " + style.WarningStyle.Render("The snapshot has damaged or missing files"))
	}
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func backupIndex(backups []restore.ConflictBackup) map[string]string {
	index := make(map[string]string, len(backups))
	for _, b := range backups {
		index[b.Original] = b.Backup
	}
	return index
}

func (r *Renderer) renderOutcome(o *restore.Outcome) {
	r.println(style.SubtitleStyle.Render("Restored from " + o.SnapshotDir))
	backups := backupIndex(o.Backups)
	for _, path := range o.Restored {
		if backup, ok := backups[path]; ok {
			r.println(style.StatusLine(style.StatusBackedUp, path, "previous version saved as "+filepath.Base(backup)))
			continue
		}
		r.println(style.StatusLine(style.StatusRestored, path, ""))
	}
	for _, rel := range o.Skipped {
		r.println(style.StatusLine(style.StatusSkipped, rel, "left as it was"))
	}
	for _, w := range o.Warnings {
		r.println(style.StatusLine(style.StatusWarning, w.RelativePath, w.Message))
	}
}

func (r *Renderer) renderPromotion(p *profiles.PromoteResult) {
	r.println(style.SubtitleStyle.Render("Promoted profile") + " " + style.ProfileStyle.Render(p.Profile))
	backups := backupIndex(p.Backups)
	for _, path := range p.Promoted {
		detail := ""
		if backup, ok := backups[path]; ok {
			detail = "previous version saved as " + filepath.Base(backup)
		}
		r.println(style.StatusLine(style.StatusRestored, path, detail))
	}
}

func (r *Renderer) renderCleanup(c *cleanup.Report) {
	r.println(style.SubtitleStyle.Render("Cleanup"))
	for _, path := range c.Removed {
		r.println(style.StatusLine(style.StatusOK, path, "removed"))
	}
	for _, path := range c.Preserved {
		r.println(style.StatusLine(style.StatusSkipped, path, "kept"))
	}
	for _, note := range c.Notes {
		r.println("  " + style.InfoIndicator + " " + note)
	}
	for _, f := range c.Errors {
		r.println(style.StatusLine(style.StatusError, f.Path, f.Message))
	}
	if !c.IsSuccessful() {
		r.println(style.WarningStyle.Render("  Some paths could not be removed, remove them manually"))
	}
}

func (r *Renderer) renderPreconditions(p *uninstall.Preconditions) {
	check := func(ok bool, failed, label string) {
		indicator := style.SuccessIndicator
		if !ok {
			indicator = failed
		}
		r.println(style.Indent(indicator+" "+label, 1))
	}
	check(p.Installed, style.ErrorIndicator, "zprof is installed")
	check(p.HomeResolvable, style.ErrorIndicator, "home directory found")
	check(p.HomeWritable, style.ErrorIndicator, "home directory is writable")
	if p.Installed {
		// advisory only
		check(p.SnapshotPresent, style.SkipIndicator, "pre-install snapshot present")
		r.println(style.Indent(fmt.Sprintf("%s %d profile(s)", style.InfoIndicator, len(p.Profiles)), 1))
	}
	for _, w := range p.Warnings {
		r.println(style.Indent(style.WarningIndicator+" "+style.WarningStyle.Render(w), 1))
	}
}

func (r *Renderer) renderReport(rep *uninstall.Report) {
	r.println(style.TitleStyle.Render("Uninstall"))
	if rep.Preconditions != nil {
		r.renderPreconditions(rep.Preconditions)
		r.println("")
	}
	if rep.Restoration != "" {
		r.printf("  %-12s %s\n", "restoration", style.Bold(rep.Restoration))
	}
	if s := rep.SafetySnapshot; s != nil {
		r.printf("  %-12s %s (%s, %d files)\n", "safety copy", style.BackupStyle.Render(s.Path), humanize.Bytes(uint64(s.Size)), s.Files)
	}
	r.println("")
	if rep.Restore != nil {
		r.renderOutcome(rep.Restore)
		r.println("")
	}
	if rep.Promotion != nil {
		r.renderPromotion(rep.Promotion)
		r.println("")
	}
	if rep.Cleanup != nil {
		r.renderCleanup(rep.Cleanup)
		r.println("")
	}

	switch rep.Status {
	case uninstall.StatusCompleted:
		r.println(style.SuccessIndicator + " " + style.SuccessStyle.Render("zprof was uninstalled"))
	case uninstall.StatusRestoreFailed:
		r.println(style.BoxStyle.Render(style.ErrorIndicator + " " + style.ErrorStyle.Render("Restoration failed")))
	default:
		r.println(style.InfoIndicator + " " + string(rep.Status))
	}
	if rep.Message != "" {
		r.println(style.Indent(style.NormalStyle.Render(rep.Message), 1))
	}
}
