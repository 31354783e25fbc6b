package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/eventstore"
	"git.home.luguber.info/inful/blogsmith/internal/templates"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Site: config.SiteConfig{
			Title:   "Test Blog",
			BaseURL: "https://example.com",
			Author:  "Jane",
		},
		Content: config.ContentConfig{Dir: filepath.Join(root, "_posts")},
		Layouts: config.LayoutsConfig{Default: "default"},
		Output:  config.OutputConfig{Directory: filepath.Join(root, "_site")},
	}
	require.NoError(t, os.MkdirAll(cfg.Content.Dir, 0o755))
	return cfg
}

func writePost(t *testing.T, cfg *config.Config, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Dir, name), []byte(body), 0o644))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, rel))
	require.NoError(t, err)
	return string(data)
}

func TestBuild_RendersPostsAndIndex(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-03-25-logging-in-production.md",
		"---\nlayout: default\ntitle: Logging in production\ncategory: nodejs\ntags: [logging]\n---\nFirst paragraph.\n\nThe rest.\n")
	writePost(t, cfg, "2021-01-01-newer-post.md",
		"---\ntitle: Newer Post\n---\nNewer body.\n")

	report, err := New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Equal(t, 2, report.Posts)

	post := readOutput(t, cfg, "2020/03/25/logging-in-production/index.html")
	require.Contains(t, post, "Logging in production")
	require.Contains(t, post, "March 25, 2020")
	require.Contains(t, post, "nodejs")

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, "March 25, 2020")
	require.Contains(t, index, "nodejs")
	require.Contains(t, index, "First paragraph.")
	// Newest first.
	require.Less(t, strings.Index(index, "Newer Post"), strings.Index(index, "Logging in production"))
}

func TestBuild_WritesTaxonomyPages(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-01-01-a.md", "---\ntitle: A\ncategory: go\ntags: [static sites]\n---\nBody.\n")

	_, err := New(cfg).Build(context.Background())
	require.NoError(t, err)

	cat := readOutput(t, cfg, "categories/go/index.html")
	require.Contains(t, cat, "A")

	tag := readOutput(t, cfg, "tags/static-sites/index.html")
	require.Contains(t, tag, "A")
}

func TestBuild_WritesFeedAndSitemap(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-03-25-a.md", "---\ntitle: A\ncategory: go\n---\nSummary text.\n\nMore.\n")

	_, err := New(cfg).Build(context.Background())
	require.NoError(t, err)

	feed := readOutput(t, cfg, "feed.xml")
	require.Contains(t, feed, "https://example.com/2020/03/25/a/")
	require.Contains(t, feed, "Summary text.")

	sitemap := readOutput(t, cfg, "sitemap.xml")
	require.Contains(t, sitemap, "<loc>https://example.com/2020/03/25/a/</loc>")
}

func TestBuild_CopiesStaticAssets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Static = filepath.Join(filepath.Dir(cfg.Content.Dir), "static")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Content.Static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Static, "css", "main.css"), []byte("body{}"), 0o644))
	writePost(t, cfg, "2020-01-01-a.md", "---\ntitle: A\n---\nBody.\n")

	_, err := New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, "body{}", readOutput(t, cfg, "css/main.css"))
}

func TestBuild_UnresolvedLayout_FailsAndKeepsPreviousOutput(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-01-01-good.md", "---\ntitle: Good\n---\nBody.\n")

	_, err := New(cfg).Build(context.Background())
	require.NoError(t, err)
	firstIndex := readOutput(t, cfg, "index.html")

	writePost(t, cfg, "2020-02-02-broken.md", "---\ntitle: Broken\nlayout: no-such-layout\n---\nBody.\n")

	report, err := New(cfg).Build(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, templates.ErrLayoutNotFound)
	require.Equal(t, OutcomeFailed, report.Outcome)

	// The last good site is still published.
	require.Equal(t, firstIndex, readOutput(t, cfg, "index.html"))
}

func TestBuild_MalformedPost_Fails(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-01-01-bad.md", "---\ntitle: [unclosed\n---\nBody.\n")

	report, err := New(cfg).Build(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, report.Outcome)
}

func TestBuild_RecordsEvents(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-01-01-a.md", "---\ntitle: A\n---\nBody.\n")

	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	report, err := New(cfg, WithEventStore(store)).Build(context.Background())
	require.NoError(t, err)

	events, err := store.ByBuild(context.Background(), report.BuildID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, eventstore.TypeBuildStarted, events[0].Type)
	require.Equal(t, eventstore.TypeBuildSucceeded, events[1].Type)
	require.Contains(t, string(events[1].Payload), `"outcome":"success"`)
}

func TestBuild_CanceledContext_Fails(t *testing.T) {
	cfg := testConfig(t)
	writePost(t, cfg, "2020-01-01-a.md", "---\ntitle: A\n---\nBody.\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(cfg).Build(ctx)
	require.Error(t, err)
}

func TestBuild_CustomLayoutDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Layouts.Dir = filepath.Join(filepath.Dir(cfg.Content.Dir), "_layouts")
	require.NoError(t, os.MkdirAll(cfg.Layouts.Dir, 0o755))
	custom := `<html><body>CUSTOM {{ .Title }} {{ .Content }}</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Layouts.Dir, "default.html"), []byte(custom), 0o644))
	writePost(t, cfg, "2020-01-01-a.md", "---\ntitle: A\n---\nBody.\n")

	_, err := New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Contains(t, readOutput(t, cfg, "2020/01/01/a/index.html"), "CUSTOM A")
}
