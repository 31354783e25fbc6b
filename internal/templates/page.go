package templates

import (
	"html/template"
	"time"
)

// Site is the site-wide metadata every layout can reach.
type Site struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
}

// Entry is one row of a listing page: what the index and taxonomy layouts
// need to render a post reference.
type Entry struct {
	Title       string
	URL         string
	Date        time.Time
	DateDisplay string
	Category    string
	Tags        []string
	Excerpt     template.HTML
}

// Page is the data a layout renders. Post pages fill Content; listing pages
// fill Posts; taxonomy pages additionally set Term.
type Page struct {
	Site        Site
	Title       string
	URL         string
	Date        time.Time
	DateDisplay string
	Category    string
	Tags        []string
	Content     template.HTML
	Fields      map[string]any // full front-matter key/value set
	Posts       []Entry
	Term        string // taxonomy term, e.g. a category or tag name
}
