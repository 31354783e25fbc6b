package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title    string   `arg:"" help:"Title of the new post"`
	Category string   `help:"Category for the post"`
	Tags     []string `help:"Tags for the post"`
	Layout   string   `help:"Layout to render the post with" default:"post"`
	Draft    bool     `help:"Mark the post as a draft"`
	Date     string   `help:"Publication date (YYYY-MM-DD, defaults to today)"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	date := time.Now()
	if n.Date != "" {
		date, err = time.Parse("2006-01-02", n.Date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", n.Date, err)
		}
	}

	s, err := slug.Normalize(n.Title)
	if err != nil || s == "" {
		return fmt.Errorf("cannot derive a slug from title %q", n.Title)
	}

	fields := map[string]any{
		"layout": n.Layout,
		"title":  n.Title,
		"uid":    uuid.NewString(),
	}
	if n.Category != "" {
		fields["category"] = n.Category
	}
	if len(n.Tags) > 0 {
		fields["tags"] = n.Tags
	}
	if n.Draft {
		fields["draft"] = true
	}

	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true}
	meta, err := frontmatter.Serialize(fields, style)
	if err != nil {
		return fmt.Errorf("serialize front matter: %w", err)
	}
	doc := frontmatter.Compose(meta, []byte("Write your post here.\n"), true, style)

	if err := os.MkdirAll(cfg.Content.Dir, 0o755); err != nil {
		return fmt.Errorf("create content directory: %w", err)
	}
	path := filepath.Join(cfg.Content.Dir, fmt.Sprintf("%s-%s.md", date.Format("2006-01-02"), s))
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("post already exists: %s", path)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write post: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
