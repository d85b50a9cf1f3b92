package test

import (
	"fmt"
	"sync"

	"github.com/bluenviron/pngmeta/internal/logger"
)

// NilLogger is a logger to /dev/null
type NilLogger struct{}

// Log implements logger.Writer.
func (NilLogger) Log(_ logger.Level, _ string, _ ...interface{}) {
}

// RecordingLogger is a logger that stores entries in memory.
type RecordingLogger struct {
	mutex   sync.Mutex
	entries []string
}

// Log implements logger.Writer.
func (l *RecordingLogger) Log(level logger.Level, format string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var prefix string
	switch level {
	case logger.Debug:
		prefix = "DEB "
	case logger.Info:
		prefix = "INF "
	case logger.Warn:
		prefix = "WAR "
	default:
		prefix = "ERR "
	}

	l.entries = append(l.entries, prefix+fmt.Sprintf(format, args...))
}

// Entries returns a copy of the stored entries.
func (l *RecordingLogger) Entries() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]string(nil), l.entries...)
}
