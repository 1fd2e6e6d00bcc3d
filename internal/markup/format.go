package markup

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// htmlTags maps a style to its HTML element.
var htmlTags = map[Tag]string{
	TagBold:          "strong",
	TagItalic:        "em",
	TagStrikethrough: "del",
	TagCode:          "code",
}

// HTML renders segments as escaped HTML. Newlines become <br>.
func HTML(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>\n")
		for _, t := range s.Tags {
			el := htmlTags[t]
			text = "<" + el + ">" + text + "</" + el + ">"
		}
		b.WriteString(text)
	}
	return b.String()
}

// Terminal styles, one per tag.
var terminalStyles = map[Tag]lipgloss.Style{
	TagBold:          lipgloss.NewStyle().Bold(true),
	TagItalic:        lipgloss.NewStyle().Italic(true),
	TagStrikethrough: lipgloss.NewStyle().Strikethrough(true),
	TagCode: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FCFCFA")).
		Background(lipgloss.Color("#403E41")),
}

// Terminal renders segments with ANSI styles for display in a terminal.
// On outputs without color support lipgloss degrades to the plain text.
func Terminal(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		text := s.Text
		for _, t := range s.Tags {
			if style, ok := terminalStyles[t]; ok {
				text = style.Render(text)
			}
		}
		b.WriteString(text)
	}
	return b.String()
}
