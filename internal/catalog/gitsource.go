package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// GitProvider keeps a data repository with the catalog file synced locally
// and reads the items from it. The repository is cloned on first use and
// pulled on every later one.
type GitProvider struct {
	URL       string
	LocalPath string // where the repo is kept on disk
	ItemsFile string // path of the yaml catalog inside the repo
}

// ListItems implements Provider.
func (p GitProvider) ListItems() ([]string, error) {
	if err := syncRepo(p.URL, p.LocalPath); err != nil {
		return nil, err
	}
	return FileProvider{Path: filepath.Join(p.LocalPath, p.ItemsFile)}.ListItems()
}

// syncRepo clones the repository if it doesn't exist at the given path, or
// pulls the latest changes if it does.
func syncRepo(url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("cloning catalog repository", "url", url, "path", localPath)
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("catalog: cloning %s: %w", url, err)
		}
	case err == nil:
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("catalog: opening repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("catalog: getting worktree at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("catalog: pulling %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("catalog: checking path %s: %w", localPath, err)
	}
	return nil
}
