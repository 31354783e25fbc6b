// Package lint checks post front matter before a build would trip over it.
package lint

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/content"
	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
)

// Rule names, stable for tooling that filters lint output.
const (
	RuleFilename    = "filename"
	RuleFrontMatter = "front-matter"
	RuleTitle       = "title"
	RuleDate        = "date"
	RuleUID         = "uid"
)

// Issue is one finding on one post.
type Issue struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Fixed   bool   `json:"fixed,omitempty"`
}

// Run lints every Markdown post under dir. With fix enabled, fixable issues
// (currently a missing uid) are rewritten in place, preserving the remaining
// front-matter key/value set and the file's newline style.
func Run(dir string, fix bool) ([]Issue, error) {
	var issues []Issue

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}
		found, ferr := lintFile(path, fix)
		if ferr != nil {
			return ferr
		}
		issues = append(issues, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func lintFile(path string, fix bool) ([]Issue, error) {
	var issues []Issue

	fileDate, _, err := content.SplitPostFilename(path)
	hasFileDate := err == nil
	if err != nil {
		issues = append(issues, Issue{Path: path, Rule: RuleFilename, Message: err.Error()})
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	meta, body, found, style, err := frontmatter.Split(raw)
	if err != nil {
		issues = append(issues, Issue{Path: path, Rule: RuleFrontMatter, Message: err.Error()})
		return issues, nil
	}
	if !found {
		issues = append(issues, Issue{Path: path, Rule: RuleFrontMatter, Message: "post has no front-matter block"})
		return issues, nil
	}

	fields, err := frontmatter.Parse(meta)
	if err != nil {
		issues = append(issues, Issue{Path: path, Rule: RuleFrontMatter, Message: err.Error()})
		return issues, nil
	}

	if title, _ := fields["title"].(string); strings.TrimSpace(title) == "" {
		issues = append(issues, Issue{Path: path, Rule: RuleTitle, Message: "title is required"})
	}

	if hasFileDate {
		// yaml.v3 yields a string for quoted dates and a time.Time for plain
		// ones; both forms must agree with the filename.
		switch declared := fields["date"].(type) {
		case string:
			if parsed, perr := time.ParseInLocation("2006-01-02", declared, time.UTC); perr != nil || !parsed.Equal(fileDate) {
				issues = append(issues, dateIssue(path, declared, fileDate))
			}
		case time.Time:
			if !declared.Equal(fileDate) {
				issues = append(issues, dateIssue(path, declared.Format("2006-01-02"), fileDate))
			}
		}
	}

	if uid, _ := fields["uid"].(string); strings.TrimSpace(uid) == "" {
		issue := Issue{Path: path, Rule: RuleUID, Message: "post has no stable uid"}
		if fix {
			fields["uid"] = uuid.NewString()
			if err := rewrite(path, fields, body, style); err != nil {
				return nil, err
			}
			issue.Fixed = true
		}
		issues = append(issues, issue)
	}

	return issues, nil
}

func dateIssue(path, declared string, fileDate time.Time) Issue {
	return Issue{
		Path:    path,
		Rule:    RuleDate,
		Message: fmt.Sprintf("date %q disagrees with filename date %s", declared, fileDate.Format("2006-01-02")),
	}
}

func rewrite(path string, fields map[string]any, body []byte, style frontmatter.Style) error {
	meta, err := frontmatter.Serialize(fields, style)
	if err != nil {
		return fmt.Errorf("serialize front matter for %s: %w", path, err)
	}
	out := frontmatter.Compose(meta, body, true, style)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	return nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
