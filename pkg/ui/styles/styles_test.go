package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codename-B/OneText/pkg/ui/styles"
)

func TestEmbeddedStylesLoad(t *testing.T) {
	for _, name := range []string{"header", "success", "warning", "error", "muted", "path"} {
		assert.Contains(t, styles.Names(), name)
	}
}

func TestGet_UnknownNameIsZeroStyle(t *testing.T) {
	style := styles.Get("no-such-style")
	assert.Equal(t, "plain", style.Render("plain"))
}

func TestGet_LabelHasWidth(t *testing.T) {
	rendered := styles.Get("label").Render("App")
	assert.GreaterOrEqual(t, len(rendered), 14, "label pads to its fixed width")
}
