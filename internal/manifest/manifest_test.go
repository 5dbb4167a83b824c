package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, ts string) Entry {
	return Entry{ID: id, TS: ts, Tier: blob.TierPublic, Path: BlobPath(id), Size: 10, Hash: "h-" + id}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func processed(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func TestLoad_Missing(t *testing.T) {
	s, res := Load(filepath.Join(t.TempDir(), FileName))

	assert.Equal(t, Missing, res.State)
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_MalformedFallsBackToEmpty(t *testing.T) {
	cases := map[string]string{
		"garbage": "{not json",
		"object":  `{"id":"a"}`,
		"null":    "null",
		"empty":   "",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			s, res := Load(path)
			assert.Equal(t, Malformed, res.State)
			assert.ErrorIs(t, res.Err, kerrors.ErrMalformedManifest)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestLoad_SkipsEmptyIDsAndLastDuplicateWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `[
  {"id": "a", "ts": "2025-01-01T00:00:00Z", "tier": "public", "path": "data/a.json", "size": 1, "hash": "old"},
  {"id": "", "ts": "2025-01-02T00:00:00Z"},
  {"id": "a", "ts": "2025-01-01T00:00:00Z", "tier": "public", "path": "data/a.json", "size": 2, "hash": "new"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, res := Load(path)
	require.Equal(t, Loaded, res.State)
	assert.Equal(t, 1, s.Len())

	e, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", e.Hash)
}

func TestUpsert_ReplacesByID(t *testing.T) {
	s := NewStore("unused")
	s.Upsert(entry("a", "2025-01-01T00:00:00Z"))
	updated := entry("a", "2025-02-01T00:00:00Z")
	updated.Hash = "changed"
	s.Upsert(updated)

	assert.Equal(t, 1, s.Len())
	got, _ := s.Get("a")
	assert.Equal(t, "changed", got.Hash)
}

func TestFinalize_MergeAndPrune(t *testing.T) {
	newStore := func() *Store {
		s := NewStore("unused")
		s.Upsert(entry("A", "2025-01-01T00:00:00Z"))
		s.Upsert(entry("B", "2025-02-01T00:00:00Z"))

		// This run processes B and C.
		b := entry("B", "2025-02-01T00:00:00Z")
		b.Hash = "updated"
		s.Upsert(b)
		s.Upsert(entry("C", "2025-03-01T00:00:00Z"))
		return s
	}
	run := processed("B", "C")

	t.Run("merge", func(t *testing.T) {
		got := newStore().Finalize(run, false)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, ids(got))
		for _, e := range got {
			if e.ID == "B" {
				assert.Equal(t, "updated", e.Hash)
			}
		}
	})

	t.Run("prune", func(t *testing.T) {
		s := newStore()
		got := s.Finalize(run, true)
		assert.ElementsMatch(t, []string{"B", "C"}, ids(got))
		assert.Equal(t, []string{"A"}, s.Dropped(run))
	})
}

func TestSortEntries_Descending(t *testing.T) {
	entries := []Entry{
		entry("jan", "2025-01-01T00:00:00Z"),
		entry("jun", "2025-06-01T00:00:00Z"),
		entry("mar", "2025-03-01T00:00:00Z"),
	}
	SortEntries(entries)
	assert.Equal(t, []string{"jun", "mar", "jan"}, ids(entries))
}

func TestSortEntries_ComparesInstantsNotStrings(t *testing.T) {
	// Lexically "…T10:00:00+05:30" sorts above "…T06:00:00Z", but it is earlier.
	entries := []Entry{
		entry("offset", "2025-01-01T10:00:00+05:30"),
		entry("utc", "2025-01-01T06:00:00Z"),
		entry("micro", "2025-01-01T06:00:00.000001Z"),
	}
	SortEntries(entries)
	assert.Equal(t, []string{"micro", "utc", "offset"}, ids(entries))
}

func TestSortEntries_UnparseableAndEmptyLast(t *testing.T) {
	entries := []Entry{
		entry("empty", ""),
		entry("garbage", "someday"),
		entry("old", "2020-01-01T00:00:00Z"),
		entry("also-garbage", "next week"),
		entry("new", "2025-01-01T00:00:00Z"),
	}
	SortEntries(entries)
	assert.Equal(t, []string{"new", "old", "garbage", "also-garbage", "empty"}, ids(entries))
}

func TestSortEntries_TiesByID(t *testing.T) {
	entries := []Entry{
		entry("b", "2025-01-01T00:00:00Z"),
		entry("a", "2025-01-01T00:00:00Z"),
		entry("c", "2025-01-01T00:00:00Z"),
	}
	SortEntries(entries)
	assert.Equal(t, []string{"a", "b", "c"}, ids(entries))
}

func TestSave_WritesSortedIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", FileName)
	s := NewStore(path)

	err := s.Save([]Entry{
		entry("jan", "2025-01-01T00:00:00Z"),
		entry("jun", "2025-06-01T00:00:00Z"),
		entry("mar", "2025-03-01T00:00:00Z"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "[\n  {\n    \"id\": \"jun\",\n    \"ts\": \"2025-06-01T00:00:00Z\",\n    \"tier\": \"public\",\n    \"path\": \"data/jun.json\""), content)
	assert.Less(t, strings.Index(content, `"jun"`), strings.Index(content, `"mar"`))
	assert.Less(t, strings.Index(content, `"mar"`), strings.Index(content, `"jan"`))

	reloaded, res := Load(path)
	require.Equal(t, Loaded, res.State)
	assert.Equal(t, []string{"jun", "mar", "jan"}, ids(reloaded.Entries()))

	leftovers, err := filepath.Glob(filepath.Join(dir, "out", ".*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSave_EmptyManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, NewStore(path).Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoadState_String(t *testing.T) {
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "unknown", LoadState(42).String())
}
