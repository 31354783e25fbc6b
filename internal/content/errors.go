package content

import (
	"errors"
	"fmt"
)

// ErrBadFilename indicates a Markdown file in the posts directory does not
// follow the YYYY-MM-DD-slug.md naming convention.
var ErrBadFilename = errors.New("post filename must look like YYYY-MM-DD-slug.md")

// ParseError reports a post that could not be parsed, carrying the source
// path so the author can find it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
