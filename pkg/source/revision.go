package source

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// Revision identifies the commit a source was built from.
type Revision struct {
	Origin string
	Commit string
	Branch string
}

// ReadRevision reads origin, HEAD commit and branch of the repository containing
// path. A path outside any repository yields an empty Revision and no error.
func ReadRevision(path string) (Revision, error) {
	var rev Revision

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return rev, nil
		}
		return rev, fmt.Errorf("failed to open repository: %w", err)
	}

	rev.Origin, err = originURL(repo)
	if err != nil {
		return rev, err
	}

	head, err := repo.Head()
	if err != nil {
		return rev, fmt.Errorf("failed to get HEAD: %w", err)
	}
	rev.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	return rev, nil
}

// CloneOrigin returns the origin URL of the clone at dir. Unlike ReadRevision it
// does not look for a repository in parent directories; a dir that is not a
// repository yields an empty string and no error.
func CloneOrigin(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	return originURL(repo)
}

func originURL(repo *git.Repository) (string, error) {
	remotes, err := repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	for _, remote := range remotes {
		if remote.Config().Name == "origin" {
			if len(remote.Config().URLs) > 0 {
				return remote.Config().URLs[0], nil
			}
			break
		}
	}
	return "", nil
}
