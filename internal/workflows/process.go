package workflows

import (
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	logger "github.com/PolarWolf314/musings/internal/logging"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/posts"
	"github.com/PolarWolf314/musings/internal/secrets"
	"github.com/PolarWolf314/musings/internal/utils"
)

// postWriter turns posts into blob files under one output directory.
type postWriter struct {
	outDir     string
	codec      *blob.Codec
	passphrase []byte
	dryRun     bool
	log        logger.Logger
}

func newPostWriter(outDir string, codec *blob.Codec, passphrase []byte, dryRun bool, log logger.Logger) *postWriter {
	if codec == nil {
		codec = blob.NewCodec(secrets.DefaultKDFParams)
	}
	return &postWriter{outDir: outDir, codec: codec, passphrase: passphrase, dryRun: dryRun, log: log}
}

// encode picks the tier from the post's privacy.
func (w *postWriter) encode(post *posts.Post) (*blob.Blob, error) {
	if !post.IsPrivate() {
		return w.codec.EncodePublic(post.ID, post.Timestamp, post.Body), nil
	}
	if len(w.passphrase) == 0 {
		return nil, kerrors.ErrPassphraseRequired
	}
	return w.codec.EncodeMaster(post.ID, post.Timestamp, post.Body, w.passphrase)
}

// process writes data/<id>.json and returns the manifest entry describing
// exactly the bytes written.
func (w *postWriter) process(post *posts.Post) (manifest.Entry, error) {
	if err := posts.ValidateID(post.ID); err != nil {
		return manifest.Entry{}, err
	}

	b, err := w.encode(post)
	if err != nil {
		return manifest.Entry{}, err
	}
	data, err := blob.Marshal(b)
	if err != nil {
		return manifest.Entry{}, err
	}
	addr := blob.AddressOf(data)

	entry := manifest.Entry{
		ID:   b.ID,
		TS:   b.TS,
		Tier: b.Tier,
		Path: manifest.BlobPath(b.ID),
		Size: addr.Size,
		Hash: addr.Hash,
	}

	target := w.blobFile(entry)
	if w.dryRun {
		w.log.Debugf("dry run: would write %s (%d bytes)", target, entry.Size)
		return entry, nil
	}
	if err := utils.WriteFileAtomic(target, data, 0644); err != nil {
		return manifest.Entry{}, fmt.Errorf("writing blob: %w", err)
	}
	w.log.Debugf("wrote %s tier=%s size=%d sha256=%s", target, entry.Tier, entry.Size, entry.Hash)
	return entry, nil
}

func (w *postWriter) blobFile(e manifest.Entry) string {
	return filepath.Join(w.outDir, filepath.FromSlash(e.Path))
}

func manifestPath(outDir string) string {
	return filepath.Join(outDir, manifest.FileName)
}

// loadManifest reads the manifest and logs which fallback, if any, was taken.
func loadManifest(outDir string, log logger.Logger) (*manifest.Store, manifest.LoadResult) {
	path := manifestPath(outDir)
	store, res := manifest.Load(path)
	switch res.State {
	case manifest.Missing:
		log.Infof("No manifest at %s, starting from an empty one", path)
	case manifest.Malformed:
		log.WarnfAlways("Manifest %s is unreadable and will be rebuilt: %v", path, res.Err)
	default:
		log.Debugf("Loaded %d manifest entries from %s", store.Len(), path)
	}
	return store, res
}
