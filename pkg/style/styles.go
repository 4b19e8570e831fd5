package style

import (
	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Text styles
var (
	TitleStyle    = fg(HeadingColor).Bold(true).MarginBottom(1)
	SubtitleStyle = fg(HeadingColor).Bold(true)
	NormalStyle   = fg(TextColor)
	MutedStyle    = fg(MutedColor)
)

// Outcome styles
var (
	SuccessStyle = fg(SuccessColor).Bold(true)
	ErrorStyle   = fg(ErrorColor).Bold(true)
	WarningStyle = fg(WarningColor).Bold(true)
	InfoStyle    = fg(InfoColor)
)

// Domain styles
var (
	PathStyle    = fg(SecondaryColor).Italic(true)
	ProfileStyle = fg(ProfileColor).Bold(true)
	BackupStyle  = fg(BackupColor)

	// BoxStyle frames a result that needs the reader's attention.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)
)

// Indicators prefix report lines.
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
	SkipIndicator    = MutedStyle.Render("○")
)

// Indent pads s by two spaces per level.
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
