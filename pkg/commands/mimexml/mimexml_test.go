package mimexml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/testutil"
)

func TestMimeXMLFromDefaultManifest(t *testing.T) {
	doc, err := MimeXML(MimeXMLOptions{FileSystem: testutil.NewFS()})
	require.NoError(t, err)

	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `xmlns="http://www.freedesktop.org/standards/shared-mime-info"`)
	assert.Contains(t, doc, `<mime-type type="text/plain">`)
	assert.Contains(t, doc, `<glob pattern="*.txt"/>`)
}

func TestMimeXMLHonorsTaskChoices(t *testing.T) {
	doc, err := MimeXML(MimeXMLOptions{
		TaskChoices: map[string]bool{"txtassoc": false},
		FileSystem:  testutil.NewFS(),
	})
	require.NoError(t, err)

	assert.NotContains(t, doc, "mime-type")
}

func TestMimeXMLFromFile(t *testing.T) {
	fs := testutil.NewFS()
	testutil.WriteFile(t, fs, "/m.toml", `
app_id = "onetext"
app_name = "OneText"
version = "1.4.0"
executable = "onetext.exe"

[[files]]
source = "onetext.exe"

[[associations]]
extension = ".md"
friendly_name = "Markdown Document"
mime_type = "text/markdown"
`)

	doc, err := MimeXML(MimeXMLOptions{ManifestPath: "/m.toml", FileSystem: fs})
	require.NoError(t, err)

	assert.Contains(t, doc, `<mime-type type="text/markdown">`)
	assert.Contains(t, doc, `<glob pattern="*.md"/>`)
	assert.Contains(t, doc, "<comment>Markdown Document</comment>")
}
