// Package blob defines the per-post JSON record published next to the
// manifest and the codec that produces it.
//
// A public blob stores the body as plaintext under "md". A master blob
// stores an encryption envelope instead: scrypt parameters and salt, the
// cipher name, IV, associated data and ciphertext. The associated data is
// always "musings:<id>:v<version>", so ciphertext copied from one post into
// another post's blob fails to open.
//
// Marshal produces the exact bytes written to disk; AddressOf computes the
// size and SHA-256 recorded in the manifest from those same bytes.
package blob
