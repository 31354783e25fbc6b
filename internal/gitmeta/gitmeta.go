// Package gitmeta integrates the content tree with Git: syncing a remote
// content repository and deriving last-modified timestamps from history.
package gitmeta

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Sync makes dir an up-to-date checkout of the configured content repository.
// A fresh clone is used when dir is not a repository yet; otherwise the
// branch is pulled fast-forward.
func Sync(repo *config.RepoConfig, dir string) error {
	if repo == nil {
		return nil
	}

	if _, err := git.PlainOpen(dir); err == nil {
		return pull(repo, dir)
	}
	return clone(repo, dir)
}

func clone(repo *config.RepoConfig, dir string) error {
	slog.Info("Cloning content repository", logfields.URL(repo.URL), slog.String("branch", repo.Branch), logfields.Path(dir))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove existing content dir: %w", err)
	}

	opts := &git.CloneOptions{URL: repo.URL}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	if _, err := git.PlainClone(dir, false, opts); err != nil {
		return fmt.Errorf("clone content repository: %w", err)
	}
	return nil
}

func pull(repo *config.RepoConfig, dir string) error {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open content repository: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	err = wt.Pull(opts)
	if err == git.NoErrAlreadyUpToDate {
		slog.Debug("Content repository already up to date", logfields.Path(dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull content repository: %w", err)
	}
	slog.Info("Content repository updated", logfields.Path(dir))
	return nil
}

// LastModified returns the most recent commit time for each of the given
// paths (relative to the repository root). Paths without history are absent
// from the result. Returns nil without error when dir is not a repository.
func LastModified(dir string, relPaths []string) (map[string]time.Time, error) {
	repository, err := git.PlainOpen(dir)
	if err == git.ErrRepositoryNotExists {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	result := make(map[string]time.Time, len(relPaths))
	for _, rel := range relPaths {
		rel := rel
		iter, err := repository.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
		if err != nil {
			return nil, fmt.Errorf("log %s: %w", rel, err)
		}
		commit, err := iter.Next()
		iter.Close()
		if err != nil {
			// No commit touches this path yet (new, uncommitted file).
			continue
		}
		result[rel] = commit.Committer.When
	}
	return result, nil
}
