// Package secrets provides the cryptographic primitives behind private posts.
//
// # Encryption Architecture
//
// Every private post is protected by one shared passphrase:
//
//  1. A fresh 16-byte salt is drawn per post
//  2. scrypt (N=32768, r=8, p=1) turns passphrase+salt into a 256-bit key
//  3. AES-256-GCM encrypts the payload under a fresh 12-byte nonce
//
// Because the salt differs per post, no two posts share a key even though
// they share a passphrase. The salt and scrypt parameters are stored with
// the ciphertext so the key can be re-derived for decryption.
//
// # Associated Data
//
// Seal and Open take associated data that is authenticated but not
// encrypted. The blob package uses it to bind a ciphertext to the post id
// and schema version it was written for.
//
// # Security Considerations
//
// Randomness comes from crypto/rand only. DeriveKey refuses N, r or p above
// MaxCostN, MaxBlockSize or MaxParallelism, and any N and r whose working
// set exceeds MaxMemory, so a crafted blob cannot make validation allocate
// unbounded memory.
package secrets
