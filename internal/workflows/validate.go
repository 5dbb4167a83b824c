package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	logger "github.com/PolarWolf314/musings/internal/logging"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/secrets"
)

// ValidateOptions configures the validate workflow.
type ValidateOptions struct {
	OutDir string

	// Passphrase, when set, is used to open every master blob.
	Passphrase []byte

	// Codec opens master blobs. Only its Open method is used, so the
	// cost parameters come from each blob.
	Codec *blob.Codec

	Logger logger.Logger
	Audit  *audit.Logger
}

// Failure is one manifest entry that did not check out.
type Failure struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Error renders the failure as "id: reason".
func (f Failure) Error() string {
	if f.ID == "" {
		return f.Path + ": " + f.Reason
	}
	return f.ID + ": " + f.Reason
}

func (f Failure) Unwrap() error {
	return f.Err
}

// ValidateResult holds everything validate found.
type ValidateResult struct {
	ManifestPath  string             `json:"manifest"`
	ManifestState manifest.LoadState `json:"-"`
	Checked       int                `json:"checked"`
	Decrypted     int                `json:"decrypted"`
	Failures      []Failure          `json:"failures"`
}

// OK reports whether no failures were found.
func (r *ValidateResult) OK() bool {
	return len(r.Failures) == 0
}

// Validate re-checks the published output against its manifest.
//
// Each entry runs through the checks below and stops at its first failure,
// so every broken entry is reported once:
//   - the path stays inside OutDir
//   - the blob file exists
//   - it parses as a blob
//   - its id and tier match the entry
//   - its size and SHA-256 match the entry
//   - with a passphrase, master blobs decrypt
//
// A missing manifest checks zero entries and is not a failure. A manifest
// that exists but cannot be decoded is. The returned error is reserved for
// cancellation and bad options.
func Validate(ctx context.Context, opts ValidateOptions) (result *ValidateResult, err error) {
	log := opts.Logger

	entry := opts.Audit.New(audit.OpValidate)
	defer func() {
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Entries = result.Checked
			for _, f := range result.Failures {
				entry.Failures = append(entry.Failures, f.Error())
			}
		}
		opts.Audit.Log(entry)
	}()

	if opts.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is empty", kerrors.ErrInvalidConfig)
	}
	codec := opts.Codec
	if codec == nil {
		codec = blob.NewCodec(secrets.DefaultKDFParams)
	}

	path := manifestPath(opts.OutDir)
	store, res := manifest.Load(path)
	result = &ValidateResult{
		ManifestPath:  path,
		ManifestState: res.State,
		Failures:      []Failure{},
	}

	switch res.State {
	case manifest.Missing:
		log.WarnfAlways("No manifest at %s, nothing to validate", path)
		return result, nil
	case manifest.Malformed:
		result.Failures = append(result.Failures, newFailure("", manifest.FileName, res.Err))
		return result, nil
	}

	if len(opts.Passphrase) == 0 {
		log.Infof("No passphrase given, master blobs are checked without decryption")
	}

	for _, e := range store.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Checked++

		decrypted, err := checkEntry(opts.OutDir, e, codec, opts.Passphrase)
		if err != nil {
			log.Debugf("%s failed: %v", e.ID, err)
			result.Failures = append(result.Failures, newFailure(e.ID, e.Path, err))
			continue
		}
		if decrypted {
			result.Decrypted++
		}
		log.Debugf("%s ok", e.ID)
	}

	return result, nil
}

func newFailure(id, path string, err error) Failure {
	return Failure{ID: id, Path: path, Reason: err.Error(), Err: err}
}

// checkEntry runs the per-entry checks in order and reports whether the
// blob was decrypted.
func checkEntry(outDir string, e manifest.Entry, codec *blob.Codec, passphrase []byte) (bool, error) {
	if e.Path == "" {
		return false, fmt.Errorf("%w: entry has no path", kerrors.ErrMalformedManifest)
	}
	local := filepath.FromSlash(e.Path)
	if !filepath.IsLocal(local) {
		return false, fmt.Errorf("%w: %q", kerrors.ErrPathEscapesRoot, e.Path)
	}

	data, err := os.ReadFile(filepath.Join(outDir, local))
	if errors.Is(err, os.ErrNotExist) {
		return false, kerrors.ErrMissingBlob
	}
	if err != nil {
		return false, fmt.Errorf("reading blob: %w", err)
	}

	b, err := blob.Parse(data)
	if err != nil {
		if !errors.Is(err, kerrors.ErrMalformedBlob) {
			err = fmt.Errorf("%w: %w", kerrors.ErrMalformedBlob, err)
		}
		return false, err
	}

	if b.ID != e.ID {
		return false, fmt.Errorf("%w: blob has %q", kerrors.ErrIDMismatch, b.ID)
	}
	if b.Tier != e.Tier {
		return false, fmt.Errorf("%w: blob has %q, manifest has %q", kerrors.ErrTierMismatch, b.Tier, e.Tier)
	}

	if want := (blob.Address{Size: e.Size, Hash: e.Hash}); !want.Matches(data) {
		addr := blob.AddressOf(data)
		if addr.Size != e.Size {
			return false, fmt.Errorf("%w: %d bytes on disk, manifest has %d", kerrors.ErrSizeMismatch, addr.Size, e.Size)
		}
		return false, fmt.Errorf("%w: sha256 %s on disk", kerrors.ErrHashMismatch, addr.Hash)
	}

	if b.Tier != blob.TierMaster || len(passphrase) == 0 {
		return false, nil
	}
	if _, err := codec.Open(b, passphrase); err != nil {
		return false, err
	}
	return true, nil
}
