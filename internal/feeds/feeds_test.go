package feeds

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAtom_RendersEntries(t *testing.T) {
	info := FeedInfo{Title: "Test Blog", BaseURL: "https://example.com/", Author: "Jane"}
	entries := []FeedEntry{
		{
			Title:    "Logging in production",
			URL:      "/2020/03/25/logging-in-production/",
			Updated:  time.Date(2020, 3, 25, 0, 0, 0, 0, time.UTC),
			Summary:  "How to log without drowning.",
			Category: "nodejs",
		},
	}

	out, err := Atom(info, entries, time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, "<title>Test Blog</title>")
	require.Contains(t, s, "https://example.com/2020/03/25/logging-in-production/")
	require.Contains(t, s, `term="nodejs"`)
	require.Contains(t, s, "How to log without drowning.")

	var parsed struct {
		XMLName xml.Name `xml:"feed"`
		Entries []struct {
			Title string `xml:"title"`
		} `xml:"entry"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.Entries, 1)
}

func TestAtom_FeedUpdatedTracksNewestEntry(t *testing.T) {
	entries := []FeedEntry{
		{Title: "Newest", URL: "/a/", Updated: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Older", URL: "/b/", Updated: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	out, err := Atom(FeedInfo{Title: "T", BaseURL: "https://example.com"}, entries, time.Now())
	require.NoError(t, err)
	require.Contains(t, string(out), "<updated>2021-01-01T00:00:00Z</updated>")
}

func TestAtom_EmptyFeedStillValid(t *testing.T) {
	out, err := Atom(FeedInfo{Title: "T", BaseURL: "https://example.com"}, nil, time.Now())
	require.NoError(t, err)

	var parsed struct {
		XMLName xml.Name `xml:"feed"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
}

func TestSitemap_RendersURLs(t *testing.T) {
	entries := []SitemapEntry{
		{URL: "/", LastMod: time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)},
		{URL: "/2020/03/25/logging-in-production/"},
	}

	out, err := Sitemap("https://example.com", entries)
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, "<loc>https://example.com/</loc>")
	require.Contains(t, s, "<loc>https://example.com/2020/03/25/logging-in-production/</loc>")
	require.Contains(t, s, "<lastmod>2021-05-01</lastmod>")
}
