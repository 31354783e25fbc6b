package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExcerpt_FirstParagraph(t *testing.T) {
	body := []byte("First paragraph.\n\nSecond paragraph.\n")
	require.Equal(t, "First paragraph.", string(Excerpt(body)))
}

func TestExcerpt_ExplicitMarker(t *testing.T) {
	body := []byte("Intro sentence.\n<!--more-->\nEverything after.\n")
	require.Equal(t, "Intro sentence.", string(Excerpt(body)))
}

func TestExcerpt_MarkerAfterParagraphBreak_ParagraphWins(t *testing.T) {
	body := []byte("First.\n\nSecond.\n<!--more-->\nRest.\n")
	require.Equal(t, "First.", string(Excerpt(body)))
}

func TestExcerpt_NoBreaks_ReturnsWholeBody(t *testing.T) {
	body := []byte("Only one line.\n")
	require.Equal(t, "Only one line.", string(Excerpt(body)))
}

func TestExcerpt_Idempotent(t *testing.T) {
	bodies := [][]byte{
		[]byte("First paragraph.\n\nSecond paragraph.\n"),
		[]byte("Intro.\n<!--more-->\nRest.\n"),
		[]byte("Single line."),
		[]byte("\n\nLeading blanks then text.\n\nMore.\n"),
		{},
	}
	for _, body := range bodies {
		once := Excerpt(body)
		require.Equal(t, once, Excerpt(once))
	}
}

func TestExcerpt_CRLFParagraphBreak(t *testing.T) {
	body := []byte("First.\r\n\r\nSecond.\r\n")
	require.Equal(t, "First.", string(Excerpt(body)))
}
