package source

import (
	"fmt"
	"strings"
)

// JoinURL joins a base URL and a relative repository path with exactly one
// slash between them, whatever separators either side already carries.
func JoinURL(base, rel string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}

// RepoName derives the clone directory name from a repository URL: the last
// path segment with any ".git" suffix removed. A URL ending in "/" uses the
// segment before it.
func RepoName(url string) (string, error) {
	segments := strings.Split(url, "/")

	name := segments[len(segments)-1]
	if name == "" && len(segments) > 1 {
		name = segments[len(segments)-2]
	}
	// scp-like remotes (git@host:repo.git) have no slash before the name
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")

	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q is not a valid git url", ErrInvalidURL, url)
	}
	return name, nil
}
