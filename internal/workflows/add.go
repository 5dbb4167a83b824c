package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	logger "github.com/PolarWolf314/musings/internal/logging"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/posts"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	Post       *posts.Post
	Passphrase []byte
	OutDir     string
	Codec      *blob.Codec
	DryRun     bool

	Logger logger.Logger
	Audit  *audit.Logger
}

// AddResult contains the outcome of adding one post.
type AddResult struct {
	Entry manifest.Entry

	// Replaced is true when the manifest already had an entry for this id.
	Replaced bool

	// Previous is the replaced entry, zero when Replaced is false.
	Previous manifest.Entry

	// Entries is the number of manifest entries after the add.
	Entries int

	ManifestPath  string
	ManifestState manifest.LoadState
	DryRun        bool
}

// Add publishes or updates a single post without touching any other entry.
// The manifest is re-sorted on save.
//
// Returns ErrPassphraseRequired if the post is private and Passphrase is empty.
func Add(ctx context.Context, opts AddOptions) (result *AddResult, err error) {
	log := opts.Logger

	entry := opts.Audit.New(audit.OpAdd)
	entry.DryRun = opts.DryRun
	defer func() {
		if err != nil {
			entry.Error = err.Error()
		}
		opts.Audit.Log(entry)
	}()

	if opts.Post == nil {
		return nil, kerrors.ErrNoPostsFound
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is empty", kerrors.ErrInvalidConfig)
	}
	if opts.Post.IsPrivate() && len(opts.Passphrase) == 0 {
		return nil, fmt.Errorf("%w: %q is private", kerrors.ErrPassphraseRequired, opts.Post.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, res := loadManifest(opts.OutDir, log)
	result = &AddResult{
		ManifestPath:  store.Path(),
		ManifestState: res.State,
		DryRun:        opts.DryRun,
	}
	result.Previous, result.Replaced = store.Get(opts.Post.ID)

	writer := newPostWriter(opts.OutDir, opts.Codec, opts.Passphrase, opts.DryRun, log)
	e, err := writer.process(opts.Post)
	if err != nil {
		return nil, fmt.Errorf("post %q (%s): %w", opts.Post.ID, opts.Post.SourcePath, err)
	}
	store.Upsert(e)
	result.Entry = e

	entries := store.Entries()
	result.Entries = len(entries)
	if !opts.DryRun {
		if err := store.Save(entries); err != nil {
			return nil, err
		}
		log.Infof("Saved %d manifest entries to %s", len(entries), store.Path())
	}

	entry.IDs = []string{e.ID}
	if e.Tier == blob.TierMaster {
		entry.Private = 1
	} else {
		entry.Public = 1
	}
	entry.Entries = result.Entries

	return result, nil
}
