package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"git.home.luguber.info/inful/blogsmith/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Dir    string `arg:"" optional:"" help:"Posts directory to lint (defaults to content.dir from config)"`
	Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Fix    bool   `help:"Fix issues in place where possible (assigns missing uids)"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	dir := l.Dir
	if dir == "" {
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		dir = cfg.Content.Dir
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("posts directory: %w", err)
	}

	issues, err := lint.Run(dir, l.Fix)
	if err != nil {
		return fmt.Errorf("lint: %w", err)
	}

	if l.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(issues); err != nil {
			return err
		}
	} else {
		for _, issue := range issues {
			status := ""
			if issue.Fixed {
				status = " (fixed)"
			}
			fmt.Printf("%s: %s: %s%s\n", issue.Path, issue.Rule, issue.Message, status)
		}
		fmt.Printf("%d issues found\n", len(issues))
	}

	for _, issue := range issues {
		if !issue.Fixed {
			os.Exit(1)
		}
	}
	return nil
}
