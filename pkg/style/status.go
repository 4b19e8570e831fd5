package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status is the display state of one file or path in a report.
type Status string

const (
	StatusOK       Status = "ok"        // verified or removed
	StatusRestored Status = "restored"  // written back from a snapshot
	StatusBackedUp Status = "backed-up" // moved aside before overwrite
	StatusSkipped  Status = "skipped"   // left as it was
	StatusWarning  Status = "warning"   // soft failure, flow continued
	StatusError    Status = "error"     // hard failure
)

// StatusStyle returns the pterm style for a status badge
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK, StatusRestored:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusBackedUp:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Badge renders a fixed-width status label.
func Badge(status Status) string {
	return StatusStyle(status).Sprint(fmt.Sprintf(" %-9s ", status))
}

// StatusLine renders "  <badge> path  detail".
func StatusLine(status Status, path, detail string) string {
	line := fmt.Sprintf("  %s %s", Badge(status), PathStyle.Render(path))
	if detail != "" {
		line += "  " + MutedStyle.Render(detail)
	}
	return line
}

// DisableColor turns off ANSI styling for pterm and lipgloss output.
func DisableColor() {
	pterm.DisableStyling()
	lipglossNoColor()
}
