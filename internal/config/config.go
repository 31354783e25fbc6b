package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Layouts LayoutsConfig `yaml:"layouts"`
	Output  OutputConfig  `yaml:"output"`
	Serve   ServeConfig   `yaml:"serve"`
	Events  EventsConfig  `yaml:"events"`
}

// SiteConfig holds site-wide metadata made available to every layout.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

// ContentConfig describes where posts come from and which ones are published.
type ContentConfig struct {
	Dir    string      `yaml:"dir"`
	Repo   *RepoConfig `yaml:"repo,omitempty"`
	Static string      `yaml:"static,omitempty"` // directory of assets copied verbatim
	Drafts bool        `yaml:"drafts"`           // include draft posts
	Future bool        `yaml:"future"`           // include posts dated in the future
}

// RepoConfig points the content source at a Git repository instead of a
// local directory. The repository is cloned (or updated) into content.dir.
type RepoConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
}

// LayoutsConfig locates layout templates.
type LayoutsConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Default string `yaml:"default,omitempty"` // layout used when a post names none
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove stale output on publish
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr         string   `yaml:"addr,omitempty"`
	LiveReload   *bool    `yaml:"live_reload,omitempty"`
	Metrics      bool     `yaml:"metrics"`
	RebuildEvery Duration `yaml:"rebuild_every,omitempty"` // periodic rebuild, publishes future-dated posts
}

// EventsConfig configures build event persistence and publishing.
type EventsConfig struct {
	StorePath string      `yaml:"store_path,omitempty"` // sqlite file, empty disables the store
	NATS      *NATSConfig `yaml:"nats,omitempty"`
}

// NATSConfig configures build event publishing to a NATS subject.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// LiveReloadEnabled reports whether live reload is on (default true).
func (s ServeConfig) LiveReloadEnabled() bool {
	return s.LiveReload == nil || *s.LiveReload
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; missing is fine.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "./_posts"
	}
	if c.Layouts.Default == "" {
		c.Layouts.Default = "default"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./_site"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = ":8080"
	}
	if c.Content.Repo != nil && c.Content.Repo.Branch == "" {
		c.Content.Repo.Branch = "main"
	}
}

// Validate checks for configuration errors that would make a build impossible.
func (c *Config) Validate() error {
	if c.Content.Repo != nil && c.Content.Repo.URL == "" {
		return fmt.Errorf("configuration error: content.repo.url is required when content.repo is set")
	}
	if c.Serve.RebuildEvery < 0 {
		return fmt.Errorf("configuration error: serve.rebuild_every must not be negative")
	}
	if c.Events.NATS != nil {
		if c.Events.NATS.URL == "" {
			return fmt.Errorf("configuration error: events.nats.url is required when events.nats is set")
		}
		if c.Events.NATS.Subject == "" {
			return fmt.Errorf("configuration error: events.nats.subject is required when events.nats is set")
		}
	}
	return nil
}
