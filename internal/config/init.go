package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# blogsmith configuration
site:
  title: "My Blog"
  base_url: "https://example.com"
  description: "Notes on software and other things"
  author: "Jane Doe"

content:
  dir: ./_posts
  static: ./static
  drafts: false
  future: false

layouts:
  dir: ./_layouts
  default: default

output:
  directory: ./_site
  clean: true

serve:
  addr: ":8080"
  live_reload: true
  metrics: false
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
