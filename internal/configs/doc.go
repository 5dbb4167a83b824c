// Package configs resolves where musings reads posts, where it writes
// blobs, and which passphrase seals private posts.
//
// Settings come from four layers, later layers winning:
//
//   - built-in defaults (musings_src, public/musings, scrypt N=32768 r=8 p=1)
//   - musings.toml, decoded with BurntSushi/toml
//   - MUSINGS_* environment variables, optionally seeded from a .env file
//   - command line flags, applied by the cmd package
//
// An example file:
//
//	[source]
//	dir = "musings_src"
//	timezone = "Asia/Kolkata"
//
//	[output]
//	dir = "public/musings"
//
//	[kdf]
//	n = 32768
//	r = 8
//	p = 1
//
// # Passphrase
//
// ResolvePassphrase tries, in order: piped stdin, an interactive prompt, an
// explicit key file, MUSINGS_PASSPHRASE, and finally key.txt inside the
// source directory. Whitespace around the passphrase is trimmed and an
// empty result is an error.
package configs
