package blob

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
)

// Marshal returns the canonical bytes of b as written to data/<id>.json:
// compact, keys in struct order, no HTML escaping, no trailing newline.
// The manifest size and hash are computed over exactly these bytes.
func Marshal(b *Blob) ([]byte, error) {
	data, err := marshalCompact(b)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize blob %s: %w", b.ID, err)
	}
	return data, nil
}

// Parse decodes a persisted blob. Unknown fields and trailing data are
// rejected, and the result must pass Validate.
func Parse(data []byte) (*Blob, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var b Blob
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedBlob, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after blob", kerrors.ErrMalformedBlob)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
