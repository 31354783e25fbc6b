package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// LoadOptions controls which posts a Store includes.
type LoadOptions struct {
	IncludeDrafts bool
	IncludeFuture bool
	Now           time.Time // zero means time.Now
}

// Store holds the parsed posts of a content directory, sorted for rendering.
type Store struct {
	posts      []*Document
	byCategory map[string][]*Document
	byTag      map[string][]*Document
}

// Load walks dir, parses every Markdown post and returns a Store with posts
// in descending date order (slug breaks ties). A single malformed post fails
// the load so the author sees it at build time.
func Load(dir string, opts LoadOptions) (*Store, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var posts []*Document
	skipped := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read post: %w", err)
		}
		doc, err := ParseFile(path, raw)
		if err != nil {
			return err
		}

		if doc.Draft && !opts.IncludeDrafts {
			slog.Debug("Skipping draft post", logfields.Post(doc.Slug))
			skipped++
			return nil
		}
		if doc.Date.After(now) && !opts.IncludeFuture {
			slog.Debug("Skipping future-dated post", logfields.Post(doc.Slug), slog.Time("date", doc.Date))
			skipped++
			return nil
		}

		if info, ierr := d.Info(); ierr == nil {
			doc.LastMod = info.ModTime()
		}
		posts = append(posts, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})

	store := &Store{
		posts:      posts,
		byCategory: map[string][]*Document{},
		byTag:      map[string][]*Document{},
	}
	for _, p := range posts {
		if p.Category != "" {
			store.byCategory[p.Category] = append(store.byCategory[p.Category], p)
		}
		for _, tag := range p.Tags {
			store.byTag[tag] = append(store.byTag[tag], p)
		}
	}

	slog.Info("Content loaded", slog.Int("posts", len(posts)), slog.Int("skipped", skipped), logfields.Path(dir))
	return store, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Posts returns all published posts, newest first.
func (s *Store) Posts() []*Document { return s.posts }

// Categories returns category names in lexical order.
func (s *Store) Categories() []string { return sortedKeys(s.byCategory) }

// Tags returns tag names in lexical order.
func (s *Store) Tags() []string { return sortedKeys(s.byTag) }

// Category returns the posts filed under name, newest first.
func (s *Store) Category(name string) []*Document { return s.byCategory[name] }

// Tag returns the posts tagged with name, newest first.
func (s *Store) Tag(name string) []*Document { return s.byTag[name] }

func sortedKeys(m map[string][]*Document) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
