package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// postFilePattern encodes the publish date and slug in the filename,
// e.g. 2020-03-25-logging-in-production.md.
var postFilePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.(md|markdown)$`)

// DateDisplayLayout is how publish dates appear on rendered pages.
const DateDisplayLayout = "January 2, 2006"

// Document is an immutable blog post: metadata from front matter plus the
// Markdown body. Created by parsing a source file, never mutated by the build.
type Document struct {
	SourcePath string
	Slug       string
	Date       time.Time
	Title      string
	Layout     string // empty means the configured default layout
	Category   string
	Tags       []string
	Draft      bool
	UID        string
	Fields     map[string]any // full front-matter key/value set, unchanged
	Body       []byte         // Markdown body, front matter removed
	LastMod    time.Time      // from git history when available, else file mtime

	explicitExcerpt string
}

// metaEnvelope mirrors the well-known front-matter keys. The full authored
// key/value set reaches layouts separately through Document.Fields.
type metaEnvelope struct {
	Title    string   `yaml:"title"`
	Layout   string   `yaml:"layout"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Draft    bool     `yaml:"draft"`
	UID      string   `yaml:"uid"`
	Excerpt  string   `yaml:"excerpt"`
}

var titleCaser = cases.Title(language.English)

// SplitPostFilename extracts the publish date and slug encoded in a post
// filename.
func SplitPostFilename(name string) (time.Time, string, error) {
	m := postFilePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, "", ErrBadFilename
	}
	date, err := time.ParseInLocation("2006-01-02", m[1], time.UTC)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date in filename: %w", err)
	}
	return date, m[2], nil
}

// ParseFile builds a Document from a post source file. The filename supplies
// the publish date and slug; the front-matter block supplies the rest.
func ParseFile(path string, raw []byte) (*Document, error) {
	date, slug, err := SplitPostFilename(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var meta metaEnvelope
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("front matter: %w", err)}
	}

	// A second decode into a plain map keeps every authored key/value exactly
	// as written, including falsy values the envelope cannot distinguish from
	// absent ones (draft: false, empty tags).
	fields := map[string]any{}
	if _, err := frontmatter.MustParse(bytes.NewReader(raw), &fields); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("front matter: %w", err)}
	}

	title := meta.Title
	if title == "" {
		title = titleCaser.String(strings.ReplaceAll(slug, "-", " "))
	}

	return &Document{
		SourcePath:      path,
		Slug:            slug,
		Date:            date,
		Title:           title,
		Layout:          meta.Layout,
		Category:        meta.Category,
		Tags:            meta.Tags,
		Draft:           meta.Draft,
		UID:             meta.UID,
		Fields:          fields,
		Body:            body,
		explicitExcerpt: meta.Excerpt,
	}, nil
}

// URL returns the post's site-relative URL, e.g. /2020/03/25/logging-in-production/.
func (d *Document) URL() string {
	return fmt.Sprintf("/%s/%s/", d.Date.Format("2006/01/02"), d.Slug)
}

// OutputPath returns the post's path inside the output directory.
func (d *Document) OutputPath() string {
	return filepath.Join(d.Date.Format("2006/01/02"), d.Slug, "index.html")
}

// DateDisplay renders the publish date for listings, e.g. "March 25, 2020".
func (d *Document) DateDisplay() string {
	return d.Date.Format(DateDisplayLayout)
}

// RawExcerpt returns the Markdown preview: the explicit front-matter excerpt
// when present, otherwise the derived one.
func (d *Document) RawExcerpt() []byte {
	if d.explicitExcerpt != "" {
		return []byte(d.explicitExcerpt)
	}
	return Excerpt(d.Body)
}
