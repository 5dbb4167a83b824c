package blob

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/secrets"
)

// payload is the plaintext sealed inside a master blob.
type payload struct {
	MD string `json:"md"`
}

// Codec turns post bodies into blobs and back.
type Codec struct {
	// Params are written into new master blobs. Open always uses the
	// parameters recorded in the blob itself.
	Params secrets.KDFParams
}

// NewCodec returns a Codec that seals with params.
func NewCodec(params secrets.KDFParams) *Codec {
	return &Codec{Params: params}
}

// EncodePublic stores body as plaintext.
func (c *Codec) EncodePublic(id string, ts time.Time, body string) *Blob {
	md := body
	return &Blob{
		V:    Version,
		ID:   id,
		TS:   FormatTimestamp(ts),
		Tier: TierPublic,
		MD:   &md,
	}
}

// EncodeMaster encrypts body under a key derived from passphrase and a
// fresh salt, binding the result to id and the current schema version.
func (c *Codec) EncodeMaster(id string, ts time.Time, body string, passphrase []byte) (*Blob, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("post %s: %w", id, kerrors.ErrPassphraseRequired)
	}

	salt, err := secrets.NewSalt()
	if err != nil {
		return nil, err
	}
	iv, err := secrets.NewNonce()
	if err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKey(passphrase, salt, c.Params)
	if err != nil {
		return nil, err
	}

	plaintext, err := marshalCompact(payload{MD: body})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload for %s: %w", id, err)
	}

	ad := AssociatedData(id, Version)
	ct, err := secrets.Seal(key, iv, plaintext, []byte(ad))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt %s: %w", id, err)
	}

	return &Blob{
		V:    Version,
		ID:   id,
		TS:   FormatTimestamp(ts),
		Tier: TierMaster,
		KDF: &KDF{
			Name: KDFName,
			N:    c.Params.N,
			R:    c.Params.R,
			P:    c.Params.P,
			Salt: base64.StdEncoding.EncodeToString(salt),
		},
		Alg: CipherName,
		IV:  base64.StdEncoding.EncodeToString(iv),
		AD:  ad,
		CT:  base64.StdEncoding.EncodeToString(ct),
	}, nil
}

// Open decrypts a master blob and returns the post body.
//
// It fails when the passphrase is wrong, any sealed field was altered, or
// the stored associated data does not name this blob's own id and version.
func (c *Codec) Open(b *Blob, passphrase []byte) (string, error) {
	if b.V != Version {
		return "", fmt.Errorf("%w: v=%d", kerrors.ErrUnsupportedVersion, b.V)
	}
	switch b.Tier {
	case TierMaster:
	case TierPublic:
		return "", kerrors.ErrNotEncrypted
	default:
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnknownTier, b.Tier)
	}
	if len(passphrase) == 0 {
		return "", kerrors.ErrPassphraseRequired
	}
	if b.KDF == nil {
		return "", fmt.Errorf("%w: no kdf parameters", kerrors.ErrMalformedBlob)
	}
	if b.KDF.Name != KDFName {
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnsupportedKDF, b.KDF.Name)
	}
	if b.Alg != CipherName {
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnsupportedCipher, b.Alg)
	}
	if want := AssociatedData(b.ID, b.V); b.AD != want {
		return "", fmt.Errorf("%w: got %q, want %q", kerrors.ErrAssociatedDataMismatch, b.AD, want)
	}

	salt, err := decodeField("kdf.salt", b.KDF.Salt, secrets.SaltSize)
	if err != nil {
		return "", err
	}
	iv, err := decodeField("iv", b.IV, secrets.NonceSize)
	if err != nil {
		return "", err
	}
	ct, err := decodeField("ct", b.CT, 0)
	if err != nil {
		return "", err
	}
	if len(ct) < secrets.TagSize {
		return "", fmt.Errorf("%w: ct shorter than the authentication tag", kerrors.ErrMalformedBlob)
	}

	params := secrets.KDFParams{N: b.KDF.N, R: b.KDF.R, P: b.KDF.P, KeyLen: secrets.KeySize}
	key, err := secrets.DeriveKey(passphrase, salt, params)
	if err != nil {
		return "", err
	}

	plaintext, err := secrets.Open(key, iv, ct, []byte(b.AD))
	if err != nil {
		return "", err
	}

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return "", fmt.Errorf("%w: payload is not valid JSON: %v", kerrors.ErrMalformedBlob, err)
	}
	return p.MD, nil
}

func decodeField(name, value string, wantLen int) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", kerrors.ErrMalformedBlob, name, err)
	}
	if wantLen > 0 && len(raw) != wantLen {
		return nil, fmt.Errorf("%w: %s is %d bytes, expected %d", kerrors.ErrMalformedBlob, name, len(raw), wantLen)
	}
	return raw, nil
}

// marshalCompact encodes v without whitespace or HTML escaping and without
// the trailing newline json.Encoder appends.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
