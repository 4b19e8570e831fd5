package style

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

type markupTag struct {
	style   lipgloss.Style
	pattern *regexp.Regexp
}

// MarkupParser renders inline [tag]text[/tag] markup in messages.
type MarkupParser struct {
	tags map[string]markupTag
}

func tagPattern(tag string) *regexp.Regexp {
	q := regexp.QuoteMeta(tag)
	return regexp.MustCompile(`\[` + q + `\](.*?)\[/` + q + `\]`)
}

// NewMarkupParser creates a parser knowing the package styles.
func NewMarkupParser() *MarkupParser {
	p := &MarkupParser{tags: make(map[string]markupTag)}
	for tag, s := range map[string]lipgloss.Style{
		"title":     TitleStyle,
		"subtitle":  SubtitleStyle,
		"success":   SuccessStyle,
		"error":     ErrorStyle,
		"warning":   WarningStyle,
		"info":      InfoStyle,
		"path":      PathStyle,
		"muted":     MutedStyle,
		"profile":   ProfileStyle,
		"backup":    BackupStyle,
		"bold":      lipgloss.NewStyle().Bold(true),
		"italic":    lipgloss.NewStyle().Italic(true),
		"underline": lipgloss.NewStyle().Underline(true),
	} {
		p.AddStyle(tag, s)
	}
	return p
}

// AddStyle registers or replaces a tag.
func (p *MarkupParser) AddStyle(tag string, s lipgloss.Style) {
	p.tags[tag] = markupTag{style: s, pattern: tagPattern(tag)}
}

// Render styles every known span, repeating until nested spans are
// resolved. Unknown tags are left as written.
func (p *MarkupParser) Render(text string) string {
	for {
		before := text
		for _, t := range p.tags {
			text = t.pattern.ReplaceAllStringFunc(text, func(span string) string {
				return t.style.Render(t.pattern.FindStringSubmatch(span)[1])
			})
		}
		if text == before {
			return text
		}
	}
}

var defaultParser = NewMarkupParser()

// Render renders markup with the default parser.
func Render(text string) string {
	return defaultParser.Render(text)
}
