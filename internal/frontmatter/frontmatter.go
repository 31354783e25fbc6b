package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated indicates a document opened a front-matter block but never
// closed it.
var ErrUnterminated = errors.New("front matter opening delimiter found but closing delimiter is missing")

const delimiter = "---"

// Style captures the newline shape of a document so a rewrite can reproduce it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// DetectStyle inspects content and reports its newline convention.
func DetectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}

// Split separates a `---` delimited YAML front-matter block from the body.
//
// found is false when the document does not open with a delimiter line; the
// body is then the full input. meta excludes both delimiter lines.
func Split(content []byte) (meta, body []byte, found bool, style Style, err error) {
	style = DetectStyle(content)
	nl := style.Newline

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}
	rest := content[len(open):]

	// An immediately repeated delimiter is an empty block.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closing := []byte(nl + delimiter + nl)
	end := bytes.Index(rest, closing)
	if end < 0 {
		return nil, nil, false, style, ErrUnterminated
	}

	meta = rest[:end+len(nl)]
	body = rest[end+len(closing):]
	return meta, body, true, style, nil
}

// Compose reassembles a document from raw front matter and body.
// When found is false the body is returned untouched.
func Compose(meta, body []byte, found bool, style Style) []byte {
	if !found {
		return body
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	var out bytes.Buffer
	out.Grow(len(meta) + len(body) + 2*(len(delimiter)+len(nl)))
	out.WriteString(delimiter)
	out.WriteString(nl)
	out.Write(meta)
	out.WriteString(delimiter)
	out.WriteString(nl)
	out.Write(body)
	return out.Bytes()
}

// Parse decodes raw front-matter YAML (without delimiters) into a map.
func Parse(meta []byte) (map[string]any, error) {
	if len(meta) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
