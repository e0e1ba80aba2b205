package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour. Non-markdown
// topics pass through untouched.
type GlamourRenderer struct {
	Width int // word wrap width, 0 leaves glamour's default
}

// NewGlamourRenderer creates a markdown renderer with terminal
// auto-detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// Render converts markdown content to styled terminal output. Any
// renderer failure falls back to the raw content.
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
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
