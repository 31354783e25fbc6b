package content

import "bytes"

// MoreMarker explicitly ends a post's excerpt.
var MoreMarker = []byte("<!--more-->")

var paragraphBreaks = [][]byte{
	[]byte("\r\n\r\n"),
	[]byte("\n\n"),
}

// Excerpt returns the preview of a Markdown body: everything before the first
// excerpt marker or paragraph break, whichever comes first.
//
// The result contains neither a marker nor a blank line, so applying Excerpt
// to its own output returns it unchanged.
func Excerpt(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)

	cut := len(trimmed)
	if i := bytes.Index(trimmed, MoreMarker); i >= 0 && i < cut {
		cut = i
	}
	for _, br := range paragraphBreaks {
		if i := bytes.Index(trimmed, br); i >= 0 && i < cut {
			cut = i
		}
	}
	return bytes.TrimSpace(trimmed[:cut])
}
