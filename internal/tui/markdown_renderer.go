package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWrap keeps narrow overlays readable.
const minMarkdownWrap = 24

// markdownRenderer renders task text for the info overlay. The glamour
// renderer is rebuilt only when the wrap width changes, and the last result
// is cached because View runs on every frame.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer

	lastSource string
	lastWidth  int
	lastOutput string
}

// render converts markdown into ANSI-styled text wrapped at width. On any
// renderer failure the trimmed source is returned as-is.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(width, minMarkdownWrap)
	if r.lastOutput != "" && r.lastSource == markdown && r.lastWidth == wrapWidth {
		return r.lastOutput
	}

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	out := strings.Trim(rendered, "\n")
	r.lastSource = markdown
	r.lastWidth = wrapWidth
	r.lastOutput = out
	return out
}
