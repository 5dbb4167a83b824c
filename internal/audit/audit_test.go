package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".musings", "audit.jsonl")
	l := NewLogger(path)
	l.now = func() time.Time { return time.Date(2025, 8, 24, 16, 0, 0, 123456000, time.UTC) }
	return l, path
}

func TestLog_CreatesFileAndDirectory(t *testing.T) {
	l, path := newTestLogger(t)

	entry := l.New(OpBuild)
	entry.IDs = []string{"hello"}
	l.Log(entry)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	l, path := newTestLogger(t)

	build := l.New(OpBuild)
	build.IDs = []string{"a", "b"}
	build.Public = 1
	build.Private = 1
	build.Pruned = []string{"old"}
	l.Log(build)

	validate := l.New(OpValidate)
	validate.Entries = 2
	validate.Failures = []string{"b: authentication failed"}
	l.Log(validate)

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Operation != OpBuild || len(entries[0].IDs) != 2 || entries[0].Pruned[0] != "old" {
		t.Errorf("Unexpected build entry: %+v", entries[0])
	}
	if entries[1].Operation != OpValidate || len(entries[1].Failures) != 1 {
		t.Errorf("Unexpected validate entry: %+v", entries[1])
	}
	if entries[0].RunID == "" || entries[0].RunID != entries[1].RunID {
		t.Errorf("Entries from one logger must share a run id, got %q and %q", entries[0].RunID, entries[1].RunID)
	}
	if entries[0].Timestamp != "2025-08-24T16:00:00.123456Z" {
		t.Errorf("Unexpected timestamp format: %s", entries[0].Timestamp)
	}
	if !strings.Contains(entries[0].User, "@") {
		t.Errorf("Expected user@host, got %q", entries[0].User)
	}
}

func TestNewLogger_DistinctRunIDs(t *testing.T) {
	a := NewLogger("a")
	b := NewLogger("b")
	if a.RunID() == b.RunID() {
		t.Errorf("Expected distinct run ids, both were %q", a.RunID())
	}
	if len(a.RunID()) != 36 {
		t.Errorf("Expected UUID length 36, got %d", len(a.RunID()))
	}
}

func TestLog_DisabledLoggers(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Log(nilLogger.New(OpAdd))
	if nilLogger.Path() != "" || nilLogger.RunID() != "" {
		t.Errorf("Nil logger must report empty path and run id")
	}

	empty := NewLogger("")
	empty.Log(empty.New(OpAdd))
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	l, path := newTestLogger(t)
	l.Log(l.New(OpAdd))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	line := string(data)
	for _, field := range []string{`"ids"`, `"pruned"`, `"failures"`, `"dry_run"`, `"error"`} {
		if strings.Contains(line, field) {
			t.Errorf("Expected %s to be omitted, got %s", field, line)
		}
	}
	if !strings.HasSuffix(line, "}\n") {
		t.Errorf("Expected newline-terminated JSON, got %q", line)
	}
}

func TestReadEntries_MissingFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected int
	}{
		{"empty", "", 0},
		{"single", `{"ts":"2025-01-01T00:00:00.000000Z","op":"build"}`, 1},
		{"trailing newline", "{\"op\":\"build\"}\n{\"op\":\"add\"}\n", 2},
		{"blank lines", "{\"op\":\"build\"}\n\n\n{\"op\":\"add\"}", 2},
		{"malformed skipped", "{\"op\":\"build\"}\nnot json\n{\"op\":\"validate\"}", 2},
		{"partial write", "{\"op\":\"build\"}\n{\"op\":\"ad", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseEntries([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseEntries failed: %v", err)
			}
			if len(entries) != tt.expected {
				t.Errorf("Expected %d entries, got %d", tt.expected, len(entries))
			}
		})
	}
}
