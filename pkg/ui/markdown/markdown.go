// Package markdown renders markdown for the terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal text.
type Renderer interface {
	Render(content string) string
}

// Plain returns content unchanged.
type Plain struct{}

// Render returns the content unchanged
func (Plain) Render(content string) string {
	return content
}

// Glamour uses the glamour library for rich markdown rendering
type Glamour struct {
	Style string // Style name: "dark", "light", "notty", "auto", or path to custom style
	Width int    // Word wrap width (0 = glamour default)
}

// NewGlamour creates a markdown renderer using glamour with auto-detection
func NewGlamour() *Glamour {
	return &Glamour{Style: "auto"}
}

// Render converts markdown to styled terminal output, falling back to the
// raw content when glamour cannot render it.
func (r *Glamour) Render(content string) string {
	var options []glamour.TermRendererOption

	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty", "ascii", "dracula", "pink":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// New returns Glamour when color is enabled and Plain otherwise.
func New(color bool) Renderer {
	if color {
		return NewGlamour()
	}
	return Plain{}
}
