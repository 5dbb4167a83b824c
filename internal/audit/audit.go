package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/musings/internal/utils"

	"github.com/google/uuid"
)

// Operation names recorded in the log.
const (
	OpBuild    = "build"
	OpAdd      = "add"
	OpValidate = "validate"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	RunID     string `json:"run"`  // Random id shared by everything one invocation logs.
	User      string `json:"user"` // user@host running the command.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	IDs      []string `json:"ids,omitempty"`      // Posts written by build/add.
	Public   int      `json:"public,omitempty"`   // Public blobs written.
	Private  int      `json:"private,omitempty"`  // Master blobs written.
	Pruned   []string `json:"pruned,omitempty"`   // Entries dropped from the manifest.
	Entries  int      `json:"entries,omitempty"`  // Manifest size after build, or entries checked by validate.
	Failures []string `json:"failures,omitempty"` // Validate failures as "id: reason".
	DryRun   bool     `json:"dry_run,omitempty"`
	Error    string   `json:"error,omitempty"` // Set when the operation aborted.
}

// Logger appends entries to one JSONL file. A nil *Logger or one with an
// empty path discards everything, so callers never need to check.
type Logger struct {
	path  string
	runID string
	user  string
	now   func() time.Time
}

// NewLogger returns a Logger writing to path with a fresh run id.
func NewLogger(path string) *Logger {
	return &Logger{
		path:  path,
		runID: uuid.NewString(),
		user:  utils.Identity(),
		now:   time.Now,
	}
}

// Path returns the log file, or "" when logging is disabled.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the id stamped on this logger's entries.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// New starts an entry for op with the run fields filled in.
func (l *Logger) New(op string) Entry {
	entry := Entry{Operation: op}
	if l != nil {
		entry.RunID = l.runID
		entry.User = l.user
	}
	return entry
}

// Log appends an entry to the audit log.
// Failures are swallowed: a build must not fail because its log could not be written.
func (l *Logger) Log(entry Entry) {
	if l == nil || l.path == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.RunID == "" {
		entry.RunID = l.runID
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return
	}

	// #nosec G306 -- the audit log holds ids and counts, never post content.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial writes leave broken lines behind.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
