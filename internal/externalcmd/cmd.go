// Package externalcmd allows to launch external commands.
package externalcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Environment is a Cmd environment.
type Environment map[string]string

// Cmd is an external command.
type Cmd struct {
	Cmdline string
	Env     Environment

	// optional
	Stdout io.Writer
	Stderr io.Writer
}

func (e *Cmd) expand() string {
	cmdline := e.Cmdline

	// $VAR references are replaced before splitting.
	for key, val := range e.Env {
		cmdline = strings.ReplaceAll(cmdline, "$"+key, val)
	}

	return cmdline
}

// Run runs the command and waits for it to exit.
func (e *Cmd) Run(ctx context.Context) error {
	parts, err := shellquote.Split(e.expand())
	if err != nil {
		return err
	}

	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)

	cmd.Env = append([]string(nil), os.Environ()...)
	for key, val := range e.Env {
		cmd.Env = append(cmd.Env, key+"="+val)
	}

	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}
