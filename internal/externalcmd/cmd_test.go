//go:build !windows

package externalcmd

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer

	c := &Cmd{
		Cmdline: `echo "first arg" $PNG_PATH`,
		Env: Environment{
			"PNG_PATH": "/tmp/my image.png",
		},
		Stdout: &buf,
	}
	err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "first arg /tmp/my image.png\n", buf.String())
}

func TestRunEnvironment(t *testing.T) {
	var buf bytes.Buffer

	c := &Cmd{
		Cmdline: `sh -c 'echo ${PNG_SIZE}'`,
		Env: Environment{
			"PNG_SIZE": "123",
		},
		Stdout: &buf,
	}
	err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "123\n", buf.String())
}

func TestRunExitCode(t *testing.T) {
	c := &Cmd{Cmdline: "false"}
	err := c.Run(context.Background())

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
}

func TestRunInvalid(t *testing.T) {
	c := &Cmd{Cmdline: `echo "unterminated`}
	err := c.Run(context.Background())
	require.Error(t, err)

	c = &Cmd{Cmdline: "  "}
	err = c.Run(context.Background())
	require.EqualError(t, err, "empty command")
}
