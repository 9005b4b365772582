package builder

import "errors"

var (
	ErrBuild     = errors.New("docker build failed")
	ErrContainer = errors.New("failed to create the container")

	// Warnings, reported in Report.Warnings and never returned from Run.
	ErrExtract  = errors.New("failed to copy export")
	ErrTeardown = errors.New("failed to remove the container")
)
