// Package errors provides typed error values for musings.
//
// Sentinel errors let callers branch on a condition with errors.Is() rather
// than matching message text.
//
// # Error Categories
//
//   - Configuration errors: missing or empty passphrase, bad musings.toml
//   - Source errors: unreadable posts, bad front matter, invalid ids or dates
//   - Cryptographic errors: bad scrypt parameters, AES-GCM authentication
//   - Blob errors: malformed records, unknown versions or tiers
//   - Validation errors: per-entry problems found by validate
//
// # Usage
//
// Wrap sentinels with the offending id or path:
//
//	return fmt.Errorf("post %s: %w", id, kerrors.ErrPassphraseRequired)
//
// Handle them in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrPassphraseRequired) {
//	    // suggest --key-file or MUSINGS_PASSPHRASE
//	}
package errors
