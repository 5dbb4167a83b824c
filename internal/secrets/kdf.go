package secrets

import (
	"crypto/rand"
	"fmt"

	kerrors "github.com/PolarWolf314/musings/internal/errors"

	"golang.org/x/crypto/scrypt"
)

const (
	// SaltSize is the length of the per-post scrypt salt.
	SaltSize = 16

	// KeySize is the AES-256 key length produced by DeriveKey.
	KeySize = 32

	// MaxCostN caps the scrypt work factor accepted from a blob.
	// 2^20 with r=8 already needs 1 GiB of memory.
	MaxCostN = 1 << 20

	// MaxBlockSize and MaxParallelism cap r and p the same way.
	MaxBlockSize   = 32
	MaxParallelism = 16

	// MaxMemory bounds scrypt's 128*N*r byte working set.
	MaxMemory = 1 << 30
)

// KDFParams holds scrypt cost parameters.
type KDFParams struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultKDFParams are the parameters written into every new private blob.
var DefaultKDFParams = KDFParams{N: 32768, R: 8, P: 1, KeyLen: KeySize}

// Validate reports whether p can be handed to scrypt.
func (p KDFParams) Validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("%w: N=%d must be a power of two greater than 1", kerrors.ErrInvalidKDFParams, p.N)
	}
	if p.N > MaxCostN {
		return fmt.Errorf("%w: N=%d exceeds %d", kerrors.ErrInvalidKDFParams, p.N, MaxCostN)
	}
	if p.R < 1 || p.P < 1 {
		return fmt.Errorf("%w: r=%d p=%d must be positive", kerrors.ErrInvalidKDFParams, p.R, p.P)
	}
	if p.R > MaxBlockSize || p.P > MaxParallelism {
		return fmt.Errorf("%w: r=%d p=%d exceed %d and %d", kerrors.ErrInvalidKDFParams, p.R, p.P, MaxBlockSize, MaxParallelism)
	}
	if uint64(128)*uint64(p.N)*uint64(p.R) > MaxMemory {
		return fmt.Errorf("%w: N=%d r=%d needs more than %d bytes", kerrors.ErrInvalidKDFParams, p.N, p.R, MaxMemory)
	}
	if uint64(p.R)*uint64(p.P) >= 1<<30 {
		return fmt.Errorf("%w: r*p must be below 2^30", kerrors.ErrInvalidKDFParams)
	}
	if p.KeyLen != KeySize {
		return fmt.Errorf("%w: key length %d, expected %d", kerrors.ErrInvalidKDFParams, p.KeyLen, KeySize)
	}
	return nil
}

// DeriveKey stretches passphrase and salt into a 32-byte key.
// The same inputs always produce the same key.
func DeriveKey(passphrase, salt []byte, params KDFParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, expected %d", kerrors.ErrInvalidKDFParams, len(salt), SaltSize)
	}

	key, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKDFParams, err)
	}
	return key, nil
}

// NewSalt returns SaltSize fresh random bytes.
func NewSalt() ([]byte, error) {
	return randomBytes(SaltSize)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
