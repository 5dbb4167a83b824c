package blob

import (
	"crypto/sha256"
	"encoding/hex"
)

// Address is the content address of a serialized blob.
type Address struct {
	Size int64
	Hash string // lowercase hex SHA-256
}

// AddressOf hashes data as given. Re-serializing equal content with
// different whitespace yields a different address, so callers must pass the
// bytes they persist.
func AddressOf(data []byte) Address {
	sum := sha256.Sum256(data)
	return Address{
		Size: int64(len(data)),
		Hash: hex.EncodeToString(sum[:]),
	}
}

// Matches reports whether data still has this address.
func (a Address) Matches(data []byte) bool {
	return AddressOf(data) == a
}
