package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/utils"
)

// FileName is the manifest's name under the output root.
const FileName = "manifest.json"

// Entry summarizes one published post.
type Entry struct {
	ID   string    `json:"id"`
	TS   string    `json:"ts"`
	Tier blob.Tier `json:"tier"`
	Path string    `json:"path"`
	Size int64     `json:"size"`
	Hash string    `json:"hash"`
}

// BlobPath is the manifest-relative path of a post's blob.
func BlobPath(id string) string {
	return "data/" + id + ".json"
}

// LoadState says how Load obtained its entries.
type LoadState int

const (
	// Loaded means the manifest was read and decoded.
	Loaded LoadState = iota
	// Missing means there was no manifest file; this is a first build.
	Missing
	// Malformed means the file existed but could not be decoded and was
	// treated as empty.
	Malformed
)

// String returns a string representation of LoadState.
func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// LoadResult reports the outcome of Load. Err is set only for Malformed.
type LoadResult struct {
	State LoadState
	Err   error
}

// Store is the in-memory manifest, keyed by post id.
type Store struct {
	path    string
	entries map[string]Entry
}

// NewStore returns an empty store that saves to path.
func NewStore(path string) *Store {
	return &Store{path: path, entries: make(map[string]Entry)}
}

// Load reads the manifest at path. It never fails: a missing or malformed
// file yields an empty store, and the LoadResult tells the caller which
// fallback was taken so it can be logged.
//
// Entries without an id are skipped; when an id repeats, the later entry wins.
func Load(path string) (*Store, LoadResult) {
	s := NewStore(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, LoadResult{State: Missing}
	}
	if err != nil {
		return s, LoadResult{State: Malformed, Err: fmt.Errorf("%w: %v", kerrors.ErrMalformedManifest, err)}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return s, LoadResult{State: Malformed, Err: fmt.Errorf("%w: %v", kerrors.ErrMalformedManifest, err)}
	}
	if entries == nil {
		// "null" decodes without error but is not a manifest.
		return s, LoadResult{State: Malformed, Err: fmt.Errorf("%w: not a JSON array", kerrors.ErrMalformedManifest)}
	}

	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		s.entries[e.ID] = e
	}
	return s, LoadResult{State: Loaded}
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Upsert replaces the entry with e.ID, or inserts it.
func (s *Store) Upsert(e Entry) {
	s.entries[e.ID] = e
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns every entry in persisted order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	SortEntries(out)
	return out
}

// Finalize picks the entries to persist. With prune, only ids in processed
// survive; their dropped blob files are left on disk. Without prune, entries
// from earlier runs are kept.
func (s *Store) Finalize(processed map[string]struct{}, prune bool) []Entry {
	out := make([]Entry, 0, len(s.entries))
	for id, e := range s.entries {
		if prune {
			if _, ok := processed[id]; !ok {
				continue
			}
		}
		out = append(out, e)
	}
	SortEntries(out)
	return out
}

// Dropped returns the ids Finalize would prune.
func (s *Store) Dropped(processed map[string]struct{}) []string {
	var ids []string
	for id := range s.entries {
		if _, ok := processed[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Save writes entries newest first as indented JSON. The file is replaced
// atomically so a crash never leaves a half-written manifest.
func (s *Store) Save(entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", s.path, err)
	}
	return nil
}

// SortEntries orders entries newest first, stably.
//
// Timestamps that parse as RFC 3339 are compared as instants. Entries whose
// ts does not parse sort after all parseable ones, by raw string descending,
// which puts empty timestamps last. Equal timestamps fall back to id order
// so repeated builds write identical files.
func SortEntries(entries []Entry) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]key, len(entries))
	for _, e := range entries {
		if _, seen := keys[e.TS]; seen {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, e.TS)
		keys[e.TS] = key{t: t, ok: err == nil}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := keys[entries[i].TS], keys[entries[j].TS]
		switch {
		case a.ok != b.ok:
			return a.ok
		case a.ok && !a.t.Equal(b.t):
			return a.t.After(b.t)
		case !a.ok && entries[i].TS != entries[j].TS:
			return entries[i].TS > entries[j].TS
		default:
			return entries[i].ID < entries[j].ID
		}
	})
}
