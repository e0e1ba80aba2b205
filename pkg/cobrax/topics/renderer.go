package topics

// Renderer formats topic content for terminal display
type Renderer interface {
	// Render takes raw content and the topic's file extension and
	// returns the text to print
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render returns the content as-is
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
