package cmd

import (
	"fmt"
	"strings"
)

type Cmd struct {
	cmd  string
	args []string
	dir  string
}

func New(c string) *Cmd {
	return &Cmd{cmd: c}
}

func (c *Cmd) Equal(cmd *Cmd) bool {
	return c.String() == cmd.String() && c.dir == cmd.dir
}

func (c *Cmd) Arg(args ...string) *Cmd {
	c.args = append(c.args, args...)
	return c
}

// Dir sets the working directory the command is started in.
// Empty means the current directory of the process.
func (c *Cmd) Dir(dir string) *Cmd {
	c.dir = dir
	return c
}

func (c *Cmd) Args() []string {
	return append([]string(nil), c.args...)
}

func (c *Cmd) WorkDir() string {
	return c.dir
}

func (c *Cmd) String() string {
	return strings.Trim(fmt.Sprintf("%s %s", c.cmd, strings.Join(c.args, " ")), " ")
}
