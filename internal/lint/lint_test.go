package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func rulesOf(issues []Issue) []string {
	rules := make([]string, 0, len(issues))
	for _, i := range issues {
		rules = append(rules, i.Rule)
	}
	return rules
}

func TestRun_CleanPost_NoIssues(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "2020-03-25-a.md", "---\ntitle: A\nuid: 0f0e4b9e-8c62-4dbd-b8f2-8f0e4b9e8c62\n---\nBody.\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestRun_FlagsMissingTitleAndUID(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "2020-03-25-a.md", "---\nlayout: default\n---\nBody.\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{RuleTitle, RuleUID}, rulesOf(issues))
}

func TestRun_FlagsBadFilename(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "notes.md", "---\ntitle: A\nuid: x\n---\nBody.\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.Contains(t, rulesOf(issues), RuleFilename)
}

func TestRun_FlagsMissingFrontMatter(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "2020-03-25-a.md", "# Just a heading\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.Equal(t, []string{RuleFrontMatter}, rulesOf(issues))
}

func TestRun_FlagsDateDisagreement(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "2020-03-25-a.md", "---\ntitle: A\nuid: x\ndate: \"2021-01-01\"\n---\nBody.\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.Contains(t, rulesOf(issues), RuleDate)
}

func TestRun_FlagsDateDisagreement_PlainScalar(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "2020-03-25-a.md", "---\ntitle: A\nuid: x\ndate: 2020-03-26\n---\nBody.\n")

	issues, err := Run(dir, false)
	require.NoError(t, err)
	require.Contains(t, rulesOf(issues), RuleDate)
}

func TestRun_FixKeepsPlainDateScalar(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "2020-03-25-a.md", "---\ntitle: A\ndate: 2020-03-25\n---\nBody.\n")

	issues, err := Run(dir, true)
	require.NoError(t, err)
	require.Equal(t, []string{RuleUID}, rulesOf(issues))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "date: 2020-03-25\n")
	require.NotContains(t, string(raw), "T00:00:00Z")
}

func TestRun_FixAssignsUIDAndPreservesFields(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "2020-03-25-a.md", "---\ntitle: A\ncategory: nodejs\ntags:\n  - logging\n---\nBody text.\n")

	issues, err := Run(dir, true)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, RuleUID, issues[0].Rule)
	require.True(t, issues[0].Fixed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	meta, body, found, _, err := frontmatter.Split(raw)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Body text.\n", string(body))

	fields, err := frontmatter.Parse(meta)
	require.NoError(t, err)
	require.Equal(t, "A", fields["title"])
	require.Equal(t, "nodejs", fields["category"])
	require.NotEmpty(t, fields["uid"])

	// A second run finds nothing left to fix.
	issues, err = Run(dir, true)
	require.NoError(t, err)
	require.Empty(t, issues)
}
