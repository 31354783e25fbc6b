package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicParagraph(t *testing.T) {
	out, err := NewRenderer().Render([]byte("Hello, *world*."))
	require.NoError(t, err)
	require.Contains(t, string(out), "<em>world</em>")
}

func TestRender_GFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := NewRenderer().Render([]byte(src))
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}

func TestRender_HeadingGetsID(t *testing.T) {
	out, err := NewRenderer().Render([]byte("## Logging in production\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `id="logging-in-production"`)
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	out, err := NewRenderer().Render([]byte("<figure>x</figure>\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<figure>")
}

func TestPlainText_StripsMarkup(t *testing.T) {
	got := PlainText([]byte("<p>Hello, <em>world</em>.</p>\n<p>Second.</p>"))
	require.Equal(t, "Hello, world . Second.", got)
}

func TestPlainText_Empty(t *testing.T) {
	require.Equal(t, "", PlainText(nil))
}
