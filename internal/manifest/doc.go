// Package manifest maintains manifest.json, the index of every published post.
//
// A run follows one pipeline: Load into a map keyed by id, Upsert each
// processed post, Finalize (optionally pruning ids the run did not touch),
// then Save sorted newest first. The site reading the manifest relies on
// that order, so it holds after a single-post add as well as a full build.
//
// Pruning only removes manifest entries. Blob files for pruned ids stay in
// data/ and can be reported by the caller.
//
// One process per output directory is assumed; nothing locks the file.
package manifest
