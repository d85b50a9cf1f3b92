package logger

import (
	"bytes"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

type destinationStdout struct {
	out        io.Writer
	useColor   bool
	structured bool
	buf        bytes.Buffer
}

func newDestinationStdout(out io.Writer, structured bool) destination {
	useColor := false

	if out == nil {
		out = os.Stdout
		useColor = !structured && term.IsTerminal(int(os.Stdout.Fd()))
	}

	return &destinationStdout{
		out:        out,
		useColor:   useColor,
		structured: structured,
	}
}

func (d *destinationStdout) log(t time.Time, level Level, format string, args ...interface{}) {
	d.buf.Reset()

	if d.structured {
		writeStructuredEntry(&d.buf, t, level, format, args)
	} else {
		writePlainEntry(&d.buf, t, level, d.useColor, format, args)
	}

	d.out.Write(d.buf.Bytes()) //nolint:errcheck
}

func (d *destinationStdout) close() {
}
