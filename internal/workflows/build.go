package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	logger "github.com/PolarWolf314/musings/internal/logging"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/posts"
)

// BuildOptions configures the build workflow.
type BuildOptions struct {
	// Posts are processed in order.
	Posts []*posts.Post

	// Passphrase seals private posts. It may be empty only when every post is public.
	Passphrase []byte

	// Prune drops manifest entries for posts not in this run.
	Prune bool

	// OutDir receives manifest.json and data/.
	OutDir string

	// Codec encodes blobs. Nil means the default scrypt cost.
	Codec *blob.Codec

	// DryRun computes the result without writing anything.
	DryRun bool

	Logger logger.Logger
	Audit  *audit.Logger

	// Progress, if set, is called before each post is encoded.
	Progress func(done, total int, post *posts.Post)
}

// BuildResult contains the outcome of a build.
type BuildResult struct {
	// Written holds one entry per processed post, in input order.
	Written []manifest.Entry

	Public  int
	Private int

	// Entries is the manifest as saved, newest first.
	Entries []manifest.Entry

	// Pruned lists ids dropped from the manifest.
	Pruned []string

	// Orphaned lists blob files of pruned entries that are still on disk.
	// They are left in place.
	Orphaned []string

	ManifestPath  string
	ManifestState manifest.LoadState
	DryRun        bool
}

// Build encodes every post, writes its blob, and merges the results into
// the manifest.
//
// All checks that need no I/O run first: duplicate ids and a missing
// passphrase fail before anything is written. After that the first failing
// post aborts the build; blobs already written stay on disk and the
// manifest is left untouched.
//
// Returns ErrNoPostsFound if Posts is empty.
// Returns ErrDuplicatePostID if two posts share an id.
// Returns ErrPassphraseRequired if a post is private and Passphrase is empty.
func Build(ctx context.Context, opts BuildOptions) (result *BuildResult, err error) {
	log := opts.Logger

	entry := opts.Audit.New(audit.OpBuild)
	entry.DryRun = opts.DryRun
	defer func() {
		if err != nil {
			entry.Error = err.Error()
		}
		opts.Audit.Log(entry)
	}()

	if opts.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is empty", kerrors.ErrInvalidConfig)
	}
	if len(opts.Posts) == 0 {
		return nil, kerrors.ErrNoPostsFound
	}
	if err := checkDuplicateIDs(opts.Posts); err != nil {
		return nil, err
	}
	if private := privateIDs(opts.Posts); len(private) > 0 && len(opts.Passphrase) == 0 {
		return nil, fmt.Errorf("%w: %d private post(s), first is %q", kerrors.ErrPassphraseRequired, len(private), private[0])
	}

	store, res := loadManifest(opts.OutDir, log)
	result = &BuildResult{
		ManifestPath:  store.Path(),
		ManifestState: res.State,
		DryRun:        opts.DryRun,
	}

	writer := newPostWriter(opts.OutDir, opts.Codec, opts.Passphrase, opts.DryRun, log)
	processed := make(map[string]struct{}, len(opts.Posts))

	for i, post := range opts.Posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.Progress != nil {
			opts.Progress(i, len(opts.Posts), post)
		}

		e, err := writer.process(post)
		if err != nil {
			return nil, fmt.Errorf("post %q (%s): %w", post.ID, post.SourcePath, err)
		}
		log.Infof("Encoded %s as %s", post.ID, e.Tier)

		store.Upsert(e)
		processed[post.ID] = struct{}{}
		result.Written = append(result.Written, e)
		if e.Tier == blob.TierMaster {
			result.Private++
		} else {
			result.Public++
		}
		entry.IDs = append(entry.IDs, e.ID)
	}

	if opts.Prune {
		result.Pruned = store.Dropped(processed)
		result.Orphaned = orphanedFiles(writer, store, result.Pruned)
	}
	result.Entries = store.Finalize(processed, opts.Prune)

	if !opts.DryRun {
		if err := store.Save(result.Entries); err != nil {
			return nil, err
		}
		log.Infof("Saved %d manifest entries to %s", len(result.Entries), store.Path())
	}

	entry.Public = result.Public
	entry.Private = result.Private
	entry.Pruned = result.Pruned
	entry.Entries = len(result.Entries)

	return result, nil
}

func checkDuplicateIDs(list []*posts.Post) error {
	seen := make(map[string]string, len(list))
	for _, p := range list {
		if first, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %q in %s and %s", kerrors.ErrDuplicatePostID, p.ID, first, p.SourcePath)
		}
		seen[p.ID] = p.SourcePath
	}
	return nil
}

func privateIDs(list []*posts.Post) []string {
	var ids []string
	for _, p := range list {
		if p.IsPrivate() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// orphanedFiles returns the blob files of pruned ids that still exist.
func orphanedFiles(w *postWriter, store *manifest.Store, pruned []string) []string {
	var files []string
	for _, id := range pruned {
		e, ok := store.Get(id)
		if !ok || !filepath.IsLocal(filepath.FromSlash(e.Path)) {
			continue
		}
		path := w.blobFile(e)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		files = append(files, path)
	}
	return files
}
