package image

import (
	"maps"
	"slices"

	"github.com/tgagor/jonah/pkg/cmd"
)

// Image is one `docker build` request.
type Image struct {
	Name       string
	Dockerfile string
	ContextDir string
	Labels     map[string]string
	BuildArgs  map[string]string
}

func New(name string) *Image {
	return &Image{
		Name:      name,
		Labels:    map[string]string{},
		BuildArgs: map[string]string{},
	}
}

func (i *Image) String() string {
	return i.Name
}

func (i *Image) SetDockerfile(dockerfile string) *Image {
	i.Dockerfile = dockerfile
	return i
}

// SetBuildContextDir sets the directory docker build runs in. The Dockerfile
// path is resolved relative to it.
func (i *Image) SetBuildContextDir(contextDir string) *Image {
	i.ContextDir = contextDir
	return i
}

func (i *Image) AddLabels(labels map[string]string) *Image {
	maps.Copy(i.Labels, labels)
	return i
}

func (i *Image) AddArgs(args map[string]string) *Image {
	maps.Copy(i.BuildArgs, args)
	return i
}

// BuildCmd returns the docker build invocation for the image. Labels and build
// args are emitted in key order so the command line is stable.
func (i *Image) BuildCmd() *cmd.Cmd {
	return cmd.New("docker").Arg("build").
		Arg("-t", i.Name).
		Arg("-f", i.Dockerfile).
		Arg(labelsToArgs(i.Labels)...).
		Arg(buildArgsToArgs(i.BuildArgs)...).
		Arg(".").
		Dir(i.ContextDir)
}

func labelsToArgs(labels map[string]string) []string {
	args := []string{}
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		args = append(args, "--label", k+"="+labels[k])
	}
	return args
}

func buildArgsToArgs(buildArgs map[string]string) []string {
	args := []string{}
	for _, k := range slices.Sorted(maps.Keys(buildArgs)) {
		args = append(args, "--build-arg", k+"="+buildArgs[k])
	}
	return args
}
