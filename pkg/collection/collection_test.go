package collection_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgagor/jonah/pkg/builder"
	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/cmd/cmdtest"
	"github.com/tgagor/jonah/pkg/collection"
	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/source"
)

const project = `
docker = "Dockerfile"

[[exports]]
path = "/out/artifact"
name = "artifact"
`

// engine fakes docker and git: clones get a repository with origin set and a
// build file, copies write the destination file so artifacts can be checked on
// disk.
func engine() *cmdtest.Recorder {
	return cmdtest.New().
		Respond("docker create", cmd.Result{Stdout: "c0ffee\n"}).
		On("docker cp", func(c *cmd.Cmd) (cmd.Result, error) {
			return cmd.Result{}, os.WriteFile(c.Args()[2], []byte("artifact"), 0o644)
		}).
		On("git clone", func(c *cmd.Cmd) (cmd.Result, error) {
			url, dir := c.Args()[1], c.Args()[2]
			repo, err := git.PlainInit(dir, false)
			if err != nil {
				return cmd.Result{}, err
			}
			if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{url}}); err != nil {
				return cmd.Result{}, err
			}
			return cmd.Result{}, os.WriteFile(filepath.Join(dir, "jonah.toml"), []byte(project), 0o644)
		})
}

type env struct {
	out  string
	work string
	rec  *cmdtest.Recorder
}

func setup(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	return &env{
		out:  filepath.Join(root, "out"),
		work: filepath.Join(root, "work"),
		rec:  engine(),
	}
}

func (e *env) run(coll *config.Collection) ([]*builder.Report, error) {
	resolver := source.NewResolver(e.rec, e.work)
	b := builder.New(e.rec, config.Flags{Image: "jonah-build-image"})
	return collection.Run(context.Background(), coll, e.out, e.work, resolver, b)
}

func localProject(t *testing.T, name string) config.LocalPath {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "jonah.toml")
	require.NoError(t, os.WriteFile(file, []byte(project), 0o644))
	return config.LocalPath{RefPaths: config.RefPaths{BuildFile: file, OutPath: name}}
}

func TestRunBuildsProjectsInOrder(t *testing.T) {
	e := setup(t)
	coll := &config.Collection{Projects: []config.ProjectRef{
		localProject(t, "first"),
		localProject(t, "second"),
	}}

	reports, err := e.run(coll)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.FileExists(t, filepath.Join(e.out, "first", "artifact"))
	assert.FileExists(t, filepath.Join(e.out, "second", "artifact"))
	assert.Equal(t, filepath.Join(e.out, "first"), reports[0].OutDir)
	assert.Equal(t, filepath.Join(e.out, "second"), reports[1].OutDir)
	assert.DirExists(t, e.work)

	var cps []string
	for _, l := range e.rec.Lines() {
		if strings.HasPrefix(l, "docker cp") {
			cps = append(cps, l)
		}
	}
	assert.Equal(t, []string{
		"docker cp c0ffee:/out/artifact " + filepath.Join(e.out, "first", "artifact"),
		"docker cp c0ffee:/out/artifact " + filepath.Join(e.out, "second", "artifact"),
	}, cps)
}

func TestRunStopsAtFirstFailedBuild(t *testing.T) {
	e := setup(t)
	builds := 0
	e.rec.On("docker build", func(*cmd.Cmd) (cmd.Result, error) {
		builds++
		if builds == 2 {
			return cmd.Result{ExitCode: 1}, nil
		}
		return cmd.Result{}, nil
	})
	coll := &config.Collection{Projects: []config.ProjectRef{
		localProject(t, "one"),
		localProject(t, "two"),
		localProject(t, "three"),
	}}

	reports, err := e.run(coll)
	require.ErrorIs(t, err, builder.ErrBuild)
	assert.Contains(t, err.Error(), "project two")

	assert.Len(t, reports, 1)
	assert.Equal(t, 2, builds)
	assert.FileExists(t, filepath.Join(e.out, "one", "artifact"))
	assert.NoDirExists(t, filepath.Join(e.out, "three"))
}

func TestRunValidatesBeforeAnything(t *testing.T) {
	e := setup(t)
	coll := &config.Collection{Projects: []config.ProjectRef{
		localProject(t, "local"),
		config.GitRelative{RelPath: "tools", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "tools"}},
	}}

	_, err := e.run(coll)
	require.ErrorIs(t, err, config.ErrMissingGitBase)
	assert.Contains(t, err.Error(), "tools")

	assert.Empty(t, e.rec.Calls)
	assert.NoDirExists(t, e.out)
	assert.NoDirExists(t, e.work)
}

func TestRunResolvesGitProjects(t *testing.T) {
	e := setup(t)
	coll := &config.Collection{
		GitBase: "https://example.com/org/",
		Projects: []config.ProjectRef{
			config.GitRelative{RelPath: "/tools", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "tools"}},
			config.GitURL{URL: "https://example.com/other/lib.git", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "lib"}},
		},
	}

	_, err := e.run(coll)
	require.NoError(t, err)

	assert.Equal(t, 1, e.rec.Count("git clone https://example.com/org/tools "+filepath.Join(e.work, "tools")))
	assert.Equal(t, 1, e.rec.Count("git clone https://example.com/other/lib.git "+filepath.Join(e.work, "lib")))
	assert.FileExists(t, filepath.Join(e.out, "tools", "artifact"))
	assert.FileExists(t, filepath.Join(e.out, "lib", "artifact"))

	// builds run inside the clone
	for _, c := range e.rec.Calls {
		if strings.HasPrefix(c.Line, "docker build") {
			assert.True(t, strings.HasPrefix(c.Dir, e.work), c.Dir)
		}
	}
}

func TestRunClonesSharedRepositoryOnce(t *testing.T) {
	e := setup(t)
	url := "https://example.com/org/mono.git"
	coll := &config.Collection{Projects: []config.ProjectRef{
		config.GitURL{URL: url, RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "a"}},
		config.GitURL{URL: url, RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "b"}},
	}}

	reports, err := e.run(coll)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 1, e.rec.Count("git clone"))
	assert.Equal(t, 0, e.rec.Count("git fetch"))
	assert.Equal(t, 2, e.rec.Count("docker build"))
}

func TestRunStopsOnResolveError(t *testing.T) {
	e := setup(t)
	e.rec.Fail("git clone")
	coll := &config.Collection{Projects: []config.ProjectRef{
		config.GitURL{URL: "https://example.com/org/tools.git", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "tools"}},
		localProject(t, "local"),
	}}

	reports, err := e.run(coll)
	require.ErrorIs(t, err, source.ErrResolve)
	assert.Empty(t, reports)
	assert.Equal(t, 0, e.rec.Count("docker"))
}

func TestRunExportWarningsDoNotStopTheCollection(t *testing.T) {
	e := setup(t)
	e.rec.Fail("docker cp")
	coll := &config.Collection{Projects: []config.ProjectRef{
		localProject(t, "one"),
		localProject(t, "two"),
	}}

	reports, err := e.run(coll)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Len(t, reports[0].Warnings, 1)
	assert.Len(t, reports[1].Warnings, 1)
	assert.Equal(t, 2, e.rec.Count("docker rm"))

	collection.Summary(reports)
}

func TestRunRefusesSameNamedRepositories(t *testing.T) {
	e := setup(t)
	coll := &config.Collection{Projects: []config.ProjectRef{
		config.GitURL{URL: "https://example.com/org1/tools.git", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "a"}},
		config.GitURL{URL: "https://example.com/org2/tools.git", RefPaths: config.RefPaths{BuildFile: "jonah.toml", OutPath: "b"}},
	}}

	reports, err := e.run(coll)
	require.ErrorIs(t, err, source.ErrResolve)
	assert.Len(t, reports, 1)

	assert.Equal(t, 1, e.rec.Count("git clone https://example.com/org1/tools.git"))
	assert.Equal(t, 0, e.rec.Count("git fetch"))
	assert.Equal(t, 1, e.rec.Count("docker build"))
	assert.NoDirExists(t, filepath.Join(e.out, "b"))
}
