package blob

import (
	"fmt"
	"strconv"
	"time"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
)

const (
	// Version is the blob schema version written by this build.
	Version = 1

	// KDFName and CipherName are recorded in every master blob.
	KDFName    = "scrypt"
	CipherName = "AES-256-GCM"
)

// Tier classifies a blob as plaintext or encrypted.
type Tier string

const (
	TierPublic Tier = "public"
	TierMaster Tier = "master"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierPublic || t == TierMaster
}

// KDF records the scrypt parameters and salt a master blob was sealed with.
type KDF struct {
	Name string `json:"name"`
	N    int    `json:"N"`
	R    int    `json:"r"`
	P    int    `json:"p"`
	Salt string `json:"salt"` // base64
}

// Blob is the per-post record written to data/<id>.json.
//
// Public blobs carry MD. Master blobs carry KDF, Alg, IV, AD and CT instead.
// Field order here is the key order on disk.
type Blob struct {
	V    int     `json:"v"`
	ID   string  `json:"id"`
	TS   string  `json:"ts"`
	Tier Tier    `json:"tier"`
	MD   *string `json:"md,omitempty"`
	KDF  *KDF    `json:"kdf,omitempty"`
	Alg  string  `json:"alg,omitempty"`
	IV   string  `json:"iv,omitempty"` // base64
	AD   string  `json:"ad,omitempty"`
	CT   string  `json:"ct,omitempty"` // base64, ciphertext || tag
}

// AssociatedData is the string bound into every master blob's tag.
func AssociatedData(id string, version int) string {
	return "musings:" + id + ":v" + strconv.Itoa(version)
}

// FormatTimestamp renders t in UTC as ISO-8601 with a Z suffix. Sub-second
// precision is kept to microseconds and only written when non-zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format("2006-01-02T15:04:05.000000Z")
}

// Validate checks that b is structurally a blob this build can handle. It
// does not touch any cryptography.
func (b *Blob) Validate() error {
	if b.V != Version {
		return fmt.Errorf("%w: v=%d", kerrors.ErrUnsupportedVersion, b.V)
	}
	if b.ID == "" {
		return fmt.Errorf("%w: id is empty", kerrors.ErrMalformedBlob)
	}
	if b.TS == "" {
		return fmt.Errorf("%w: ts is empty", kerrors.ErrMalformedBlob)
	}

	switch b.Tier {
	case TierPublic:
		if b.MD == nil {
			return fmt.Errorf("%w: public blob has no md", kerrors.ErrMalformedBlob)
		}
		if b.KDF != nil || b.Alg != "" || b.IV != "" || b.AD != "" || b.CT != "" {
			return fmt.Errorf("%w: public blob carries encryption fields", kerrors.ErrMalformedBlob)
		}
	case TierMaster:
		if b.MD != nil {
			return fmt.Errorf("%w: master blob carries plaintext", kerrors.ErrMalformedBlob)
		}
		if b.KDF == nil || b.Alg == "" || b.IV == "" || b.AD == "" || b.CT == "" {
			return fmt.Errorf("%w: master blob is missing encryption fields", kerrors.ErrMalformedBlob)
		}
	default:
		return fmt.Errorf("%w: %q", kerrors.ErrUnknownTier, b.Tier)
	}
	return nil
}
