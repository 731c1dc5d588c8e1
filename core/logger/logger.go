// Package logger records what the session executed as newline delimited
// JSON, one object per statement.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry is one executed statement's audit record.
type Entry struct {
	// TimestampMicros is the spawn time in microseconds since the Unix
	// epoch.
	TimestampMicros int64 `json:"timestamp_micros"`
	// Statement is the raw statement text as typed.
	Statement string `json:"statement"`
	// Args is the resolved argument list of the command, or of the left
	// side for pipelines.
	Args []string `json:"args,omitempty"`
	// RightArgs is the right side's argument list for pipelines.
	RightArgs []string `json:"right_args,omitempty"`
	// Pids holds the spawned process IDs: one for a command, two for a
	// pipeline, none for builtins and failed spawns.
	Pids []int `json:"pids,omitempty"`
	// Background is set when the statement was detached.
	Background bool `json:"background,omitempty"`
	// Status is the statement's exit status; meaningless while a
	// background statement is still running.
	Status int `json:"status"`
	// Error carries the diagnostic for failed statements.
	Error string `json:"error,omitempty"`
}

// Log appends entries to a writer. A nil *Log discards everything, which
// is how disabled auditing is represented.
type Log struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a Log writing newline delimited JSON to w.
func New(w io.Writer) *Log {
	return &Log{w: w}
}

// Record appends one entry, stamping the time if unset.
func (l *Log) Record(e *Entry) error {
	if l == nil {
		return nil
	}
	if e.TimestampMicros == 0 {
		e.TimestampMicros = time.Now().UnixMicro()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.w, string(data))
	return err
}

// ReadLog parses a newline delimited JSON audit log.
func ReadLog(r io.Reader, handler func(e *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			return err
		}
		handler(&entry)
	}
	return nil
}
