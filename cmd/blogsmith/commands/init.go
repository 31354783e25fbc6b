package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing configuration file"`
	Dir   string `short:"d" help:"Directory to initialize" default:"."`
}

const samplePost = `---
layout: post
title: "Hello, World"
category: general
tags:
  - meta
---
Welcome to your new blog. This paragraph is the excerpt shown on the index page.

Everything after the first blank line only appears on the post page itself.
`

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Dir != "." {
		if err := os.MkdirAll(i.Dir, 0o755); err != nil {
			return fmt.Errorf("create site directory: %w", err)
		}
		cfgPath = filepath.Join(i.Dir, filepath.Base(root.Config))
	}

	fmt.Printf("Writing configuration to %s\n", cfgPath)
	if err := config.Init(cfgPath, i.Force); err != nil {
		return err
	}

	postsDir := filepath.Join(i.Dir, "_posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return fmt.Errorf("create posts directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(i.Dir, "static"), 0o755); err != nil {
		return fmt.Errorf("create static directory: %w", err)
	}
	// Layout overrides go here; builtin layouts apply until a file shadows them.
	if err := os.MkdirAll(filepath.Join(i.Dir, "_layouts"), 0o755); err != nil {
		return fmt.Errorf("create layouts directory: %w", err)
	}

	postPath := filepath.Join(postsDir, time.Now().Format("2006-01-02")+"-hello-world.md")
	if _, err := os.Stat(postPath); err == nil && !i.Force {
		fmt.Println("Sample post already exists, skipping")
		return nil
	}
	if err := os.WriteFile(postPath, []byte(samplePost), 0o644); err != nil {
		return fmt.Errorf("write sample post: %w", err)
	}
	fmt.Printf("Created sample post %s\n", postPath)
	fmt.Println("Site initialized successfully")
	return nil
}
