package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
)

const (
	// NonceSize is the AES-GCM initialization vector length.
	NonceSize = 12

	// TagSize is the GCM authentication tag appended to every ciphertext.
	TagSize = 16
)

// NewNonce returns NonceSize fresh random bytes.
func NewNonce() ([]byte, error) {
	return randomBytes(NonceSize)
}

// Seal encrypts plaintext with AES-256-GCM, binding ad into the tag.
// The returned ciphertext carries the tag as its last TagSize bytes.
func Seal(key, nonce, plaintext, ad []byte) ([]byte, error) {
	aead, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open reverses Seal. Any change to key, nonce, ciphertext or ad fails with
// ErrAuthenticationFailed.
func Open(key, nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length: expected %d bytes, got %d bytes", KeySize, len(key))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce length: expected %d bytes, got %d bytes", NonceSize, len(nonce))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
