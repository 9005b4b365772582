package config

import "fmt"

// Project describes a single build: the Dockerfile to build and the artifacts
// to copy out of the resulting container.
type Project struct {
	Docker         string            `toml:"docker" yaml:"docker" hcl:"docker"`
	Exports        []Export          `toml:"exports" yaml:"exports" hcl:"export,block"`
	CreateHostDirs []string          `toml:"create_host_dirs" yaml:"create_host_dirs" hcl:"create_host_dirs,optional"`
	Labels         map[string]string `toml:"labels" yaml:"labels" hcl:"labels,optional"`
	BuildArgs      map[string]string `toml:"build_args" yaml:"build_args" hcl:"build_args,optional"`
}

// Export names a path inside the built container and the name it gets in the
// output directory.
type Export struct {
	Path string `toml:"path" yaml:"path" hcl:"path"`
	Name string `toml:"name" yaml:"name" hcl:"name"`
}

func (p *Project) validate() error {
	if p.Docker == "" {
		return fmt.Errorf("%w `docker`", ErrMissingField)
	}
	for i, e := range p.Exports {
		if e.Path == "" {
			return fmt.Errorf("%w `path` in export[%d]", ErrMissingField, i)
		}
		if e.Name == "" {
			return fmt.Errorf("%w `name` in export[%d]", ErrMissingField, i)
		}
	}
	return nil
}

// Collection drives several project builds from one file.
type Collection struct {
	GitBase  string
	Projects []ProjectRef
}

// Validate checks invariants spanning the whole collection. It must pass before
// any project is resolved or built.
func (c *Collection) Validate() error {
	if c.GitBase != "" {
		return nil
	}
	for _, p := range c.Projects {
		if rel, ok := p.(GitRelative); ok {
			return fmt.Errorf("%w: the relative git %q could not be resolved", ErrMissingGitBase, rel.RelPath)
		}
	}
	return nil
}

// ProjectRef tells where a project's build file comes from. It is one of
// GitRelative, GitURL or LocalPath.
type ProjectRef interface {
	Paths() RefPaths
	isProjectRef()
}

// RefPaths is shared by every ProjectRef. BuildFile is relative to the resolved
// source root and OutPath is relative to the collection output directory.
type RefPaths struct {
	BuildFile string
	OutPath   string
}

// GitRelative is a repository addressed relative to Collection.GitBase.
type GitRelative struct {
	RelPath string
	RefPaths
}

// GitURL is a repository addressed by a full remote URL.
type GitURL struct {
	URL string
	RefPaths
}

// LocalPath points at a build file on the local filesystem.
type LocalPath struct {
	RefPaths
}

func (r GitRelative) Paths() RefPaths { return r.RefPaths }
func (r GitURL) Paths() RefPaths      { return r.RefPaths }
func (r LocalPath) Paths() RefPaths   { return r.RefPaths }

func (GitRelative) isProjectRef() {}
func (GitURL) isProjectRef()      {}
func (LocalPath) isProjectRef()   {}

// rawRef is the on-disk shape of a project reference before the sourcing mode
// is decided.
type rawRef struct {
	GitRel    *string `toml:"git_rel" yaml:"git_rel" hcl:"git_rel,optional"`
	GitURL    *string `toml:"git_url" yaml:"git_url" hcl:"git_url,optional"`
	BuildFile string  `toml:"build_file" yaml:"build_file" hcl:"build_file"`
	OutPath   string  `toml:"out_path" yaml:"out_path" hcl:"out_path"`
}

type rawCollection struct {
	GitBase  *string  `toml:"git_base" yaml:"git_base" hcl:"git_base,optional"`
	Projects []rawRef `toml:"projects" yaml:"projects" hcl:"project,block"`
}

func (r rawRef) toRef(i int) (ProjectRef, error) {
	if r.BuildFile == "" {
		return nil, fmt.Errorf("%w `build_file` in projects[%d]", ErrMissingField, i)
	}
	if r.OutPath == "" {
		return nil, fmt.Errorf("%w `out_path` in projects[%d]", ErrMissingField, i)
	}
	paths := RefPaths{BuildFile: r.BuildFile, OutPath: r.OutPath}

	switch {
	case r.GitRel != nil && r.GitURL != nil:
		return nil, fmt.Errorf("%w (projects[%d])", ErrGitSourceConflict, i)
	case r.GitRel != nil:
		return GitRelative{RelPath: *r.GitRel, RefPaths: paths}, nil
	case r.GitURL != nil:
		return GitURL{URL: *r.GitURL, RefPaths: paths}, nil
	default:
		return LocalPath{RefPaths: paths}, nil
	}
}

func (r rawCollection) toCollection() (*Collection, error) {
	c := &Collection{Projects: make([]ProjectRef, 0, len(r.Projects))}
	if r.GitBase != nil {
		c.GitBase = *r.GitBase
	}
	for i, raw := range r.Projects {
		ref, err := raw.toRef(i)
		if err != nil {
			return nil, err
		}
		c.Projects = append(c.Projects, ref)
	}
	return c, nil
}
