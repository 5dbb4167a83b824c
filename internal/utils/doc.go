// Package utils provides small helpers shared by the cmd and workflow
// packages.
//
// # Filesystem
//
//   - FindUp: walks up from a directory looking for a file such as musings.toml
//   - WriteFileAtomic: temp file plus rename, used for blobs and the manifest
//
// # Terminal and I/O
//
//   - ReadPassphrase: hidden prompt via golang.org/x/term
//   - ReadStdin: reads a piped passphrase
//
// # Formatting
//
//   - FormatPaths, FormatSize (go-humanize), Plural
//
// # System
//
//   - Identity: "user@host" recorded in the audit log
package utils
