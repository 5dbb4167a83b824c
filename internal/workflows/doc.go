// Package workflows holds the business logic behind each musings command.
//
// The cmd package parses flags, resolves configuration and the passphrase,
// shows spinners and formats output. Everything else lives here:
//
//   - Build: encode every post, write data/<id>.json, merge and save the manifest
//   - Add: the same for a single post, leaving other entries alone
//   - Validate: re-check blobs against the manifest and optionally decrypt them
//
// Each workflow takes a context and an options struct and returns a result
// struct. Workflows never print; they log through the Logger in their
// options and record one audit entry per call.
//
// # Error Handling
//
// Errors wrap sentinels from internal/errors so the CLI can pick a message
// with errors.Is:
//
//	result, err := workflows.Build(ctx, opts)
//	if errors.Is(err, kerrors.ErrPassphraseRequired) {
//	    // suggest --key-file or MUSINGS_PASSPHRASE
//	}
//
// Validation problems are not errors. They are collected in
// ValidateResult.Failures, one per broken manifest entry.
package workflows
