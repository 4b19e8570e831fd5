package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func lipglossNoColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorEnabled reports whether the given terminal profile can show color.
func ColorEnabled(profile termenv.Profile) bool {
	return profile != termenv.Ascii
}
