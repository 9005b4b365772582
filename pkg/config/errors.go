package config

import (
	"errors"
	"fmt"
)

var (
	ErrConfig            = errors.New("configuration error")
	ErrMissingField      = fmt.Errorf("%w: missing required field", ErrConfig)
	ErrGitSourceConflict = fmt.Errorf("%w: a project can have either `git_rel` or `git_url`, but not both", ErrConfig)
	ErrMissingGitBase    = fmt.Errorf("%w: `git_base` is required for relative git projects", ErrConfig)
)
