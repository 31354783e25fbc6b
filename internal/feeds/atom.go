// Package feeds emits the Atom feed and sitemap for a built site.
package feeds

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Feed metadata, filled in from the site config.
type FeedInfo struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
}

// FeedEntry is one post in the Atom feed.
type FeedEntry struct {
	Title    string
	URL      string // site-relative, e.g. /2020/03/25/slug/
	Updated  time.Time
	Summary  string
	Category string
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Author   *atomAuthor `xml:"author,omitempty"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title    string        `xml:"title"`
	ID       string        `xml:"id"`
	Updated  string        `xml:"updated"`
	Link     atomLink      `xml:"link"`
	Summary  string        `xml:"summary,omitempty"`
	Category *atomCategory `xml:"category,omitempty"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Atom renders the feed document. Entries are emitted in the order given,
// which the builder supplies newest first.
func Atom(info FeedInfo, entries []FeedEntry, now time.Time) ([]byte, error) {
	base := strings.TrimSuffix(info.BaseURL, "/")

	feed := atomFeed{
		XMLNS:    "http://www.w3.org/2005/Atom",
		Title:    info.Title,
		Subtitle: info.Description,
		ID:       base + "/",
		Updated:  now.UTC().Format(time.RFC3339),
		Links: []atomLink{
			{Href: base + "/feed.xml", Rel: "self", Type: "application/atom+xml"},
			{Href: base + "/"},
		},
	}
	if info.Author != "" {
		feed.Author = &atomAuthor{Name: info.Author}
	}
	if len(entries) > 0 {
		feed.Updated = entries[0].Updated.UTC().Format(time.RFC3339)
	}

	for _, e := range entries {
		entry := atomEntry{
			Title:   e.Title,
			ID:      base + e.URL,
			Updated: e.Updated.UTC().Format(time.RFC3339),
			Link:    atomLink{Href: base + e.URL},
			Summary: e.Summary,
		}
		if e.Category != "" {
			entry.Category = &atomCategory{Term: e.Category}
		}
		feed.Entries = append(feed.Entries, entry)
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal atom feed: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
