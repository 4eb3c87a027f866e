package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_BasicMarkdown(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Heading\n\nSome **bold** text.")
	require.NoError(t, err)

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderer_Render_StripsScript(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert('xss')</script> world")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
}

func TestRenderer_Render_StripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(`<a href="https://example.com" onclick="steal()">link</a>`)
	require.NoError(t, err)

	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "link")
}

func TestRenderer_Render_GFMStrikethrough(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("~~gone~~")
	require.NoError(t, err)

	assert.Contains(t, out, "<del>gone</del>")
}

func TestRenderer_Render_Empty(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
