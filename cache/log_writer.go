package cache

import (
	"context"
	"strings"
	"time"
)

// LogWriter is an io.Writer that mirrors log output into a bounded redis list.
type LogWriter struct {
	db *DB
}

// NewLogWriter creates a new LogWriter. A nil DB yields a nil writer, which
// the logger treats as "console only".
func NewLogWriter(db *DB) *LogWriter {
	if db == nil {
		return nil
	}
	return &LogWriter{db: db}
}

// Write implements the io.Writer interface.
func (lw *LogWriter) Write(p []byte) (n int, err error) {
	if lw == nil || lw.db == nil {
		return len(p), nil
	}
	// The input from the log package includes a newline, which we trim.
	logEntry := strings.TrimRight(string(p), "\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Failures here are swallowed: logging must never take the service down,
	// and reporting them through the logger would loop.
	_ = lw.db.addToList(ctx, logsKey, logEntry, maxLogs)
	return len(p), nil
}
