package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result is what an Executor observed about a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs a command to completion. A non-zero exit status is not an error,
// it is reported through Result.ExitCode. Errors are reserved for processes that
// could not be started or were interrupted by the context.
type Executor interface {
	Execute(ctx context.Context, c *Cmd) (Result, error)
}

// Shell executes commands as real child processes.
type Shell struct {
	// Echo prints every command before it runs.
	Echo bool
	// Verbose streams the child's output to the terminal while still capturing it.
	Verbose bool
}

func (s *Shell) Execute(ctx context.Context, c *Cmd) (Result, error) {
	if c.cmd == "" {
		return Result{}, errors.New("command not set")
	}

	proc := exec.CommandContext(ctx, c.cmd, c.args...)
	proc.Dir = c.dir

	// pipe the commands output to the applications
	var stdout, stderr bytes.Buffer
	if s.Verbose {
		proc.Stdout = io.MultiWriter(&stdout, os.Stdout)
		proc.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		proc.Stdout = &stdout
		proc.Stderr = &stderr
	}

	if s.Echo {
		log.Info().Str("dir", c.dir).Msg("🏃 " + c.String())
	} else {
		log.Debug().Str("cmd", c.cmd).Interface("args", c.args).Str("dir", c.dir).Msg("Running")
	}
	err := proc.Run()

	// Check for context cancellation or timeout
	if ctx.Err() != nil {
		if ctx.Err() == context.Canceled {
			log.Warn().Str("cmd", c.cmd).Msg("Command was cancelled")
		} else if ctx.Err() == context.DeadlineExceeded {
			log.Warn().Str("cmd", c.cmd).Msg("Command timed out")
		}
		return Result{}, ctx.Err()
	}

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		log.Debug().Str("cmd", c.String()).Int("code", res.ExitCode).Str("stderr", strings.TrimSpace(res.Stderr)).Msg("Exited")
		return res, nil
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", c.cmd).Interface("args", c.args).Msg("Could not run command")
		return res, err
	}

	return res, nil
}
