package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStager_PublishSwapsOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "site")

	s, err := NewStager(out, "b1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "index.html"), []byte("new"), 0o644))
	require.NoError(t, s.Publish())

	got, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

func TestStager_PublishReplacesPreviousOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("stale"), 0o644))

	s, err := NewStager(out, "b2")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "index.html"), []byte("new"), 0o644))
	require.NoError(t, s.Publish())

	got, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	_, err = os.Stat(filepath.Join(out, "stale.html"))
	require.True(t, os.IsNotExist(err))
}

func TestStager_DiscardLeavesPreviousOutputUntouched(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("good"), 0o644))

	s, err := NewStager(out, "b3")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "index.html"), []byte("broken"), 0o644))
	require.NoError(t, s.Discard())

	got, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "good", string(got))

	_, err = os.Stat(s.Dir())
	require.True(t, os.IsNotExist(err))
}

func TestStager_DiscardAfterPublishIsNoop(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "site")

	s, err := NewStager(out, "b4")
	require.NoError(t, err)
	require.NoError(t, s.Publish())
	require.NoError(t, s.Discard())

	_, err = os.Stat(out)
	require.NoError(t, err)
}
