package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/config"
)

// Resolved is a project's build file located on the local filesystem.
type Resolved struct {
	// Dir is the source root, "." for local projects.
	Dir string
	// BuildFile is the project descriptor path, already joined beneath Dir.
	BuildFile string
	// Repo is the remote the source was fetched from, empty for local projects.
	Repo string
}

// Seen tracks repositories already fetched during one run.
type Seen map[string]struct{}

func (s Seen) Has(url string) bool {
	_, ok := s[url]
	return ok
}

func (s Seen) Add(url string) {
	s[url] = struct{}{}
}

// Resolver turns project references into local directories, cloning or
// refreshing git repositories under WorkDir.
type Resolver struct {
	Exec    cmd.Executor
	WorkDir string
}

func NewResolver(exec cmd.Executor, workDir string) *Resolver {
	return &Resolver{Exec: exec, WorkDir: workDir}
}

// Resolve locates the build file for ref. Git repositories are cloned shallowly
// on first use and refreshed with fetch + hard reset when the clone already
// exists. When seen is not nil, a repository already in it is reused without
// touching the network, and every fetched repository is added to it.
func (r *Resolver) Resolve(ctx context.Context, ref config.ProjectRef, gitBase string, seen Seen) (Resolved, error) {
	switch ref := ref.(type) {
	case config.LocalPath:
		return Resolved{Dir: ".", BuildFile: ref.BuildFile}, nil
	case config.GitURL:
		return r.resolveGit(ctx, ref.URL, ref.BuildFile, seen)
	case config.GitRelative:
		if gitBase == "" {
			return Resolved{}, fmt.Errorf("%w: the relative git %q could not be resolved", config.ErrMissingGitBase, ref.RelPath)
		}
		return r.resolveGit(ctx, JoinURL(gitBase, ref.RelPath), ref.BuildFile, seen)
	default:
		return Resolved{}, fmt.Errorf("%w: unsupported project reference %T", ErrResolve, ref)
	}
}

func (r *Resolver) resolveGit(ctx context.Context, url, buildFile string, seen Seen) (Resolved, error) {
	name, err := RepoName(url)
	if err != nil {
		return Resolved{}, err
	}
	dir := filepath.Join(r.WorkDir, name)
	resolved := Resolved{Dir: dir, BuildFile: filepath.Join(dir, buildFile), Repo: url}

	if seen != nil && seen.Has(url) && isDir(dir) {
		log.Debug().Str("repo", url).Str("dir", dir).Msg("Already fetched, reusing")
		return resolved, nil
	}

	if isDir(dir) {
		// repositories sharing a name map to the same directory
		origin, err := CloneOrigin(dir)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: %s: %w", ErrResolve, dir, err)
		}
		if origin != "" && origin != url {
			log.Error().Str("repo", url).Str("dir", dir).Str("origin", origin).Msg("Directory holds another repository")
			return Resolved{}, fmt.Errorf("%w: %s is a clone of %s, not %s", ErrResolve, dir, origin, url)
		}

		log.Info().Str("repo", url).Str("dir", dir).Msg("Refreshing")
		if err := r.git(ctx, url, cmd.New("git").Arg("fetch", "--depth", "1", "origin").Dir(dir)); err != nil {
			return Resolved{}, err
		}
		if err := r.git(ctx, url, cmd.New("git").Arg("reset", "--hard", "origin/HEAD").Dir(dir)); err != nil {
			return Resolved{}, err
		}
	} else {
		log.Info().Str("repo", url).Str("dir", dir).Msg("Cloning")
		if err := r.git(ctx, url, cmd.New("git").Arg("clone", url, dir, "--depth", "1")); err != nil {
			return Resolved{}, err
		}
	}

	if seen != nil {
		seen.Add(url)
	}
	return resolved, nil
}

func (r *Resolver) git(ctx context.Context, url string, c *cmd.Cmd) error {
	res, err := r.Exec.Execute(ctx, c)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResolve, c.String(), err)
	}
	if !res.Success() {
		msg := fmt.Sprintf("%s exited with code %d", c.String(), res.ExitCode)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		log.Error().Str("repo", url).Int("code", res.ExitCode).Msg("Git failed")
		return fmt.Errorf("%w: %s", ErrResolve, msg)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
