package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderLicense converts the manifest's license markdown to terminal
// output. Non-terminal formats, and any rendering failure, fall back to
// the raw text so the license is always shown in full.
func RenderLicense(content string, format Format) string {
	if format != FormatTerminal {
		return content
	}

	options := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
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
