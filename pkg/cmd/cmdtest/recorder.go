// Package cmdtest provides a fake cmd.Executor that records every command and
// answers with scripted results instead of spawning processes.
package cmdtest

import (
	"context"
	"strings"

	"github.com/tgagor/jonah/pkg/cmd"
)

// Call is one recorded invocation.
type Call struct {
	Line string // command line as printed by cmd.Cmd.String
	Dir  string
}

// Handler produces the result for a matching command.
type Handler func(c *cmd.Cmd) (cmd.Result, error)

type rule struct {
	prefix  string
	handler Handler
}

// Recorder is a scripted cmd.Executor. Commands without a matching rule exit 0
// with empty output.
type Recorder struct {
	Calls []Call
	rules []rule
}

func New() *Recorder {
	return &Recorder{}
}

// On registers a handler for commands whose line starts with prefix. Later
// registrations win over earlier ones.
func (r *Recorder) On(prefix string, h Handler) *Recorder {
	r.rules = append(r.rules, rule{prefix: prefix, handler: h})
	return r
}

// Respond registers a fixed result for commands starting with prefix.
func (r *Recorder) Respond(prefix string, res cmd.Result) *Recorder {
	return r.On(prefix, func(*cmd.Cmd) (cmd.Result, error) { return res, nil })
}

// Fail makes commands starting with prefix exit with code 1.
func (r *Recorder) Fail(prefix string) *Recorder {
	return r.Respond(prefix, cmd.Result{ExitCode: 1, Stderr: "scripted failure"})
}

func (r *Recorder) Execute(ctx context.Context, c *cmd.Cmd) (cmd.Result, error) {
	if err := ctx.Err(); err != nil {
		return cmd.Result{}, err
	}
	line := c.String()
	r.Calls = append(r.Calls, Call{Line: line, Dir: c.WorkDir()})

	for i := len(r.rules) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, r.rules[i].prefix) {
			return r.rules[i].handler(c)
		}
	}
	return cmd.Result{}, nil
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		lines = append(lines, c.Line)
	}
	return lines
}

// Count returns how many recorded commands start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c.Line, prefix) {
			n++
		}
	}
	return n
}
