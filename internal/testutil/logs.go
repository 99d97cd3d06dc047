package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// LogRecorder captures JSON log output for assertions.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogRecorder creates an empty recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

// Write implements io.Writer.
func (l *LogRecorder) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

// Logger returns a debug-level JSON logger writing to the recorder.
func (l *LogRecorder) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(l, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Entries returns every captured record, decoded.
func (l *LogRecorder) Entries() []map[string]interface{} {
	l.mu.Lock()
	data := append([]byte(nil), l.buf.Bytes()...)
	l.mu.Unlock()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Count returns how many records carry msg.
func (l *LogRecorder) Count(msg string) int {
	n := 0
	for _, e := range l.Entries() {
		if e["msg"] == msg {
			n++
		}
	}
	return n
}

// Find returns the first record carrying msg, or nil.
func (l *LogRecorder) Find(msg string) map[string]interface{} {
	for _, e := range l.Entries() {
		if e["msg"] == msg {
			return e
		}
	}
	return nil
}

// String returns the raw captured output.
func (l *LogRecorder) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}
