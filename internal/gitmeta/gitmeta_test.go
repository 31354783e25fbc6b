package gitmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, content string, when time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestLastModified_ReturnsCommitTimes(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := time.Date(2020, 3, 25, 10, 0, 0, 0, time.UTC)
	second := time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)
	commitFile(t, wt, dir, "a.md", "one", first)
	commitFile(t, wt, dir, "b.md", "two", second)

	mods, err := LastModified(dir, []string{"a.md", "b.md", "missing.md"})
	require.NoError(t, err)
	require.Equal(t, first.Unix(), mods["a.md"].Unix())
	require.Equal(t, second.Unix(), mods["b.md"].Unix())
	require.NotContains(t, mods, "missing.md")
}

func TestLastModified_AmendedFileMovesForward(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	commitFile(t, wt, dir, "a.md", "v1", first)
	commitFile(t, wt, dir, "a.md", "v2", second)

	mods, err := LastModified(dir, []string{"a.md"})
	require.NoError(t, err)
	require.Equal(t, second.Unix(), mods["a.md"].Unix())
}

func TestLastModified_NotARepository_ReturnsNil(t *testing.T) {
	mods, err := LastModified(t.TempDir(), []string{"a.md"})
	require.NoError(t, err)
	require.Nil(t, mods)
}

func TestSync_NilRepoIsNoop(t *testing.T) {
	require.NoError(t, Sync(nil, t.TempDir()))
}
