// Package logger contains a logger implementation.
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Level is a log level.
type Level int

// Log levels.
const (
	Debug Level = iota + 1
	Info
	Warn
	Error
)

// Logger is a log handler.
type Logger struct {
	Level        Level
	Destinations []Destination
	Structured   bool
	File         string
	SysLogPrefix string

	timeNow      func() time.Time
	stdout       io.Writer
	destinations []destination
	mutex        sync.Mutex
}

// Initialize initializes Logger.
func (lh *Logger) Initialize() error {
	if lh.timeNow == nil {
		lh.timeNow = time.Now
	}
	if lh.SysLogPrefix == "" {
		lh.SysLogPrefix = "pngmeta"
	}

	for _, destType := range lh.Destinations {
		switch destType {
		case DestinationStdout:
			lh.destinations = append(lh.destinations, newDestinationStdout(lh.stdout, lh.Structured))

		case DestinationFile:
			dest, err := newDestinationFile(lh.File, lh.Structured)
			if err != nil {
				lh.Close()
				return err
			}
			lh.destinations = append(lh.destinations, dest)

		case DestinationSyslog:
			dest, err := newDestinationSyslog(lh.SysLogPrefix, lh.Structured)
			if err != nil {
				lh.Close()
				return err
			}
			lh.destinations = append(lh.destinations, dest)
		}
	}

	return nil
}

// Close closes a log handler.
func (lh *Logger) Close() {
	for _, dest := range lh.destinations {
		dest.close()
	}
	lh.destinations = nil
}

func itoa(buf *bytes.Buffer, i int, wid int) {
	// assemble decimal in reverse order
	var b [20]byte
	bp := len(b) - 1
	for i >= 10 || wid > 1 {
		wid--
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		bp--
		i = q
	}
	// i < 10
	b[bp] = byte('0' + i)
	buf.Write(b[bp:])
}

func writeTime(buf *bytes.Buffer, t time.Time, useColor bool) {
	var intbuf bytes.Buffer

	// date
	year, month, day := t.Date()
	itoa(&intbuf, year, 4)
	intbuf.WriteByte('/')
	itoa(&intbuf, int(month), 2)
	intbuf.WriteByte('/')
	itoa(&intbuf, day, 2)
	intbuf.WriteByte(' ')

	// time
	hour, minute, sec := t.Clock()
	itoa(&intbuf, hour, 2)
	intbuf.WriteByte(':')
	itoa(&intbuf, minute, 2)
	intbuf.WriteByte(':')
	itoa(&intbuf, sec, 2)
	intbuf.WriteByte(' ')

	if useColor {
		buf.WriteString(color.RenderString(color.Gray.Code(), intbuf.String()))
	} else {
		buf.WriteString(intbuf.String())
	}
}

func levelString(level Level) string {
	switch level {
	case Debug:
		return "DEB"
	case Info:
		return "INF"
	case Warn:
		return "WAR"
	default:
		return "ERR"
	}
}

func writeLevel(buf *bytes.Buffer, level Level, useColor bool) {
	s := levelString(level)

	if useColor {
		var code string
		switch level {
		case Debug:
			code = color.Debug.Code()
		case Info:
			code = color.Green.Code()
		case Warn:
			code = color.Warn.Code()
		default:
			code = color.Error.Code()
		}
		buf.WriteString(color.RenderString(code, s))
	} else {
		buf.WriteString(s)
	}

	buf.WriteByte(' ')
}

func writePlainEntry(buf *bytes.Buffer, t time.Time, level Level, useColor bool, format string, args []interface{}) {
	writeTime(buf, t, useColor)
	writeLevel(buf, level, useColor)
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')
}

func writeStructuredEntry(buf *bytes.Buffer, t time.Time, level Level, format string, args []interface{}) {
	buf.WriteString(`{"timestamp":`)
	ts, _ := json.Marshal(t.Format(time.RFC3339Nano))
	buf.Write(ts)
	buf.WriteString(`,"level":"`)
	buf.WriteString(levelString(level))
	buf.WriteString(`","message":`)
	msg, _ := json.Marshal(fmt.Sprintf(format, args...))
	buf.Write(msg)
	buf.WriteString("}\n")
}

// Log writes a log entry.
func (lh *Logger) Log(level Level, format string, args ...interface{}) {
	if level < lh.Level {
		return
	}

	lh.mutex.Lock()
	defer lh.mutex.Unlock()

	t := lh.timeNow()

	for _, dest := range lh.destinations {
		dest.log(t, level, format, args...)
	}
}
