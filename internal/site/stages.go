package site

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"git.home.luguber.info/inful/blogsmith/internal/content"
	"git.home.luguber.info/inful/blogsmith/internal/feeds"
	"git.home.luguber.info/inful/blogsmith/internal/markdown"
	"git.home.luguber.info/inful/blogsmith/internal/templates"
)

// stagingSite carries per-build state between stages.
type stagingSite struct {
	dir    string
	store  *content.Store
	report *BuildReport
}

func (b *Builder) renderPosts(st *stagingSite) error {
	for _, doc := range st.store.Posts() {
		html, err := b.md.Render(doc.Body)
		if err != nil {
			return fmt.Errorf("post %s: %w", doc.Slug, err)
		}

		page := templates.Page{
			Site:        b.siteMeta(),
			Title:       doc.Title,
			URL:         doc.URL(),
			Date:        doc.Date,
			DateDisplay: doc.DateDisplay(),
			Category:    doc.Category,
			Tags:        doc.Tags,
			Content:     template.HTML(html),
			Fields:      doc.Fields,
		}
		if err := st.writePage(b, doc.Layout, doc.OutputPath(), page); err != nil {
			return fmt.Errorf("post %s: %w", doc.Slug, err)
		}
	}
	return nil
}

func (b *Builder) renderIndex(st *stagingSite) error {
	entries, err := b.entriesFor(st.store.Posts())
	if err != nil {
		return err
	}
	page := templates.Page{
		Site:  b.siteMeta(),
		Title: b.cfg.Site.Title,
		URL:   "/",
		Posts: entries,
	}
	return st.writePage(b, "index", "index.html", page)
}

func (b *Builder) renderTaxonomies(st *stagingSite) error {
	groups := []struct {
		prefix string
		terms  []string
		lookup func(string) []*content.Document
	}{
		{"categories", st.store.Categories(), st.store.Category},
		{"tags", st.store.Tags(), st.store.Tag},
	}

	for _, g := range groups {
		for _, term := range g.terms {
			entries, err := b.entriesFor(g.lookup(term))
			if err != nil {
				return err
			}
			page := templates.Page{
				Site:  b.siteMeta(),
				Title: term,
				Term:  term,
				Posts: entries,
			}
			out := filepath.Join(g.prefix, termSlug(term), "index.html")
			if err := st.writePage(b, "taxonomy", out, page); err != nil {
				return fmt.Errorf("%s %s: %w", g.prefix, term, err)
			}
		}
	}
	return nil
}

func (b *Builder) renderFeeds(st *stagingSite) error {
	posts := st.store.Posts()

	feedEntries := make([]feeds.FeedEntry, 0, len(posts))
	sitemapEntries := make([]feeds.SitemapEntry, 0, len(posts)+1)
	sitemapEntries = append(sitemapEntries, feeds.SitemapEntry{URL: "/", LastMod: time.Now()})

	for _, doc := range posts {
		excerptHTML, err := b.md.Render(doc.RawExcerpt())
		if err != nil {
			return fmt.Errorf("excerpt %s: %w", doc.Slug, err)
		}
		feedEntries = append(feedEntries, feeds.FeedEntry{
			Title:    doc.Title,
			URL:      doc.URL(),
			Updated:  latest(doc.Date, doc.LastMod),
			Summary:  markdown.PlainText(excerptHTML),
			Category: doc.Category,
		})
		sitemapEntries = append(sitemapEntries, feeds.SitemapEntry{URL: doc.URL(), LastMod: doc.LastMod})
	}

	atom, err := feeds.Atom(feeds.FeedInfo{
		Title:       b.cfg.Site.Title,
		BaseURL:     b.cfg.Site.BaseURL,
		Description: b.cfg.Site.Description,
		Author:      b.cfg.Site.Author,
	}, feedEntries, time.Now())
	if err != nil {
		return err
	}
	if err := st.writeFile("feed.xml", atom); err != nil {
		return err
	}

	sitemap, err := feeds.Sitemap(b.cfg.Site.BaseURL, sitemapEntries)
	if err != nil {
		return err
	}
	return st.writeFile("sitemap.xml", sitemap)
}

func (b *Builder) copyStaticAssets(st *stagingSite) error {
	src := b.cfg.Content.Static
	if src == "" {
		return nil
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(st.dir, rel)
		if info.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		return copyFile(path, dst)
	})
}

func (b *Builder) entriesFor(posts []*content.Document) ([]templates.Entry, error) {
	entries := make([]templates.Entry, 0, len(posts))
	for _, doc := range posts {
		excerptHTML, err := b.md.Render(doc.RawExcerpt())
		if err != nil {
			return nil, fmt.Errorf("excerpt %s: %w", doc.Slug, err)
		}
		entries = append(entries, templates.Entry{
			Title:       doc.Title,
			URL:         doc.URL(),
			Date:        doc.Date,
			DateDisplay: doc.DateDisplay(),
			Category:    doc.Category,
			Tags:        doc.Tags,
			Excerpt:     template.HTML(excerptHTML),
		})
	}
	return entries, nil
}

func (b *Builder) siteMeta() templates.Site {
	return templates.Site{
		Title:       b.cfg.Site.Title,
		BaseURL:     b.cfg.Site.BaseURL,
		Description: b.cfg.Site.Description,
		Author:      b.cfg.Site.Author,
	}
}

func (st *stagingSite) writePage(b *Builder, layout, relPath string, page templates.Page) error {
	var sb strings.Builder
	if err := b.layouts.Render(&sb, layout, page); err != nil {
		return err
	}
	if err := st.writeFile(relPath, []byte(sb.String())); err != nil {
		return err
	}
	st.report.Pages++
	return nil
}

func (st *stagingSite) writeFile(relPath string, data []byte) error {
	path := filepath.Join(st.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(relPath), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}

// termSlug makes a taxonomy term safe as a directory name.
func termSlug(term string) string {
	s, err := slug.Normalize(term)
	if err != nil || s == "" {
		return strings.ToLower(strings.ReplaceAll(term, " ", "-"))
	}
	return s
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func relToContentDir(dir, path string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absDir, absPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
