package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color adapts to light and dark terminal backgrounds.
var (
	HeadingColor   = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#F0F6FC"}
	TextColor      = lipgloss.AdaptiveColor{Light: "#3D444D", Dark: "#D1D9E0"}
	MutedColor     = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#9198A1"}
	SecondaryColor = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#58A6FF"} // paths
	BorderColor    = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#3D444D"}

	SuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#1B7C83", Dark: "#39C5CF"}
)

// Domain colors
var (
	// ProfileColor marks profile names.
	ProfileColor = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#BC8CFF"}
	// BackupColor marks backups and safety copies, anything that can be
	// restored from.
	BackupColor = lipgloss.AdaptiveColor{Light: "#BC4C00", Dark: "#F0883E"}
)
