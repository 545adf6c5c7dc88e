package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText_PlainTextPassthrough(t *testing.T) {
	out, err := HTMLToText("Hello,\n\nJust checking in.\n\nBest,\nSam")
	require.NoError(t, err)
	assert.Equal(t, "Hello,\n\nJust checking in.\n\nBest,\nSam", out)
}

func TestHTMLToText_NormalizesPlainTextWhitespace(t *testing.T) {
	out, err := HTMLToText("line one   \n\n\n\n\nline two here")
	require.NoError(t, err)
	assert.Equal(t, "line one\n\nline two here", out)
}

func TestHTMLToText_BlocksBecomeNewlines(t *testing.T) {
	out, err := HTMLToText(`<html><body><p>First paragraph</p><p>Second paragraph</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, out, "First paragraph")
	assert.Contains(t, out, "Second paragraph")
	assert.NotContains(t, out, "<p>")
	// Block boundary preserved as a line break
	assert.NotContains(t, out, "paragraphSecond")
}

func TestHTMLToText_ListItems(t *testing.T) {
	out, err := HTMLToText(`<div><ul><li>first</li><li>second</li></ul></div>`)
	require.NoError(t, err)
	assert.Contains(t, out, "- first")
	assert.Contains(t, out, "- second")
}

func TestHTMLToText_LinksIndexed(t *testing.T) {
	out, err := HTMLToText(`<p>See <a href="https://example.com/a">the doc</a> and ` +
		`<a href="https://example.com/b">the sheet</a>.</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "the doc [1]")
	assert.Contains(t, out, "the sheet [2]")
	assert.Contains(t, out, "[LINKS]")
	assert.Contains(t, out, "[1] https://example.com/a")
	assert.Contains(t, out, "[2] https://example.com/b")
}

func TestHTMLToText_AnchorFragmentsSkipped(t *testing.T) {
	out, err := HTMLToText(`<p>Jump to <a href="#section">section</a></p>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "[LINKS]")
	assert.Contains(t, out, "section")
}

func TestHTMLToText_ScriptAndStyleDropped(t *testing.T) {
	out, err := HTMLToText(`<html><head><style>p { color: red }</style></head>` +
		`<body><script>alert(1)</script><p>visible</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "color")
}

func TestHTMLToText_BrTags(t *testing.T) {
	out, err := HTMLToText(`<p>line one<br>line two</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "line one\nline two")
}
