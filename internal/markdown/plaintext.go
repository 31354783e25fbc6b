package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips tags from rendered HTML, yielding text suitable for feed
// summaries and meta descriptions. Whitespace runs collapse to single spaces.
func PlainText(rendered []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(rendered))

	var sb strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(tokenizer.Text())
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
