// Package diagsink persists diagnostic artifacts from failed extractions so
// operators can replay problem completions offline.
package diagsink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"reportcrew/pkg/extract"
)

// Writer drops one file per artifact into a flat directory. A process-local
// sequence number keeps filenames unique when several artifacts land within
// the same second.
type Writer struct {
	dir   string
	mu    sync.Mutex
	seq   uint64
	nowFn func() time.Time
}

// NewWriter creates dir if needed and returns a writer over it.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("diagsink: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("diagsink: create directory: %w", err)
	}
	return &Writer{dir: dir, nowFn: time.Now}, nil
}

// failedPayload is the on-disk shape of a failed extraction artifact. The
// sanitized text is what the parser last rejected, so replaying it reproduces
// the failure without re-running the sanitizer.
type failedPayload struct {
	Schema    string    `json:"schema"`
	Timestamp time.Time `json:"timestamp"`
	Raw       string    `json:"raw"`
	Sanitized string    `json:"sanitized,omitempty"`
}

// repairPayload is the on-disk shape of a repair trace artifact.
type repairPayload struct {
	Schema    string                  `json:"schema"`
	Timestamp time.Time               `json:"timestamp"`
	Attempts  []extract.RepairAttempt `json:"attempts"`
}

// WriteFailed persists the raw completion and the sanitized candidate that
// could not be converted, returning the file path.
func (w *Writer) WriteFailed(schema, raw, sanitized string) (string, error) {
	now := w.nowFn()
	return w.write("failed_json", schema, now, failedPayload{
		Schema:    schema,
		Timestamp: now,
		Raw:       raw,
		Sanitized: sanitized,
	})
}

// WriteRepair persists the ordered repair trace of an attempt and returns
// the file path.
func (w *Writer) WriteRepair(schema string, attempts []extract.RepairAttempt) (string, error) {
	now := w.nowFn()
	return w.write("repair_attempt", schema, now, repairPayload{
		Schema:    schema,
		Timestamp: now,
		Attempts:  attempts,
	})
}

func (w *Writer) write(kind, schema string, now time.Time, payload any) (string, error) {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	name := fmt.Sprintf("%s_%s_%d_%d.json", kind, sanitizeName(schema), now.Unix(), seq)
	path := filepath.Join(w.dir, name)

	buf, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("diagsink: marshal %s: %w", kind, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("diagsink: write %s: %w", kind, err)
	}
	return path, nil
}

// sanitizeName keeps schema names filesystem-safe.
func sanitizeName(s string) string {
	if s == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
