package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/posts"
	"github.com/PolarWolf314/musings/internal/ui"
	"github.com/PolarWolf314/musings/internal/utils"
	"github.com/PolarWolf314/musings/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	buildPrune  bool
	buildDryRun bool
)

func init() {
	addSourceFlags(buildCmd)
	addOutputFlags(buildCmd)
	addPassphraseFlags(buildCmd, true)
	buildCmd.Flags().BoolVar(&buildPrune, "prune", false, "drop manifest entries for posts no longer in the source directory")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "show what would be written without touching the output directory")
}

func resetBuildCommandState() {
	buildPrune = false
	buildDryRun = false
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Encode every post in the source directory and update the manifest",
	Long: `Reads every *.md file in the source directory, writes one blob per post to
<out>/data/<id>.json and merges the results into <out>/manifest.json.

Private posts need a passphrase. It is taken from the first of:
  --passphrase-stdin, --prompt, --key-file, MUSINGS_PASSPHRASE, <src>/key.txt

Entries for posts that are no longer in the source stay in the manifest
unless --prune is given. Pruned blob files are reported but never deleted.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting build command")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return printFailure("Failed to load configuration", err)
	}

	loader, err := posts.NewLoader(cfg.Source.Timezone)
	if err != nil {
		return printFailure("Failed to load configuration", err)
	}
	list, err := loader.LoadDir(cfg.Source.Dir)
	if err != nil {
		return printFailure("Failed to read posts", err)
	}
	if len(list) == 0 {
		return printFailure("Nothing to build", fmt.Errorf("%w in %s", kerrors.ErrNoPostsFound, cfg.Source.Dir))
	}
	Logger.Infof("Loaded %d posts from %s", len(list), cfg.Source.Dir)

	var passphrase []byte
	if hasPrivate(list) {
		passphrase, err = resolvePassphrase(cfg)
		if err != nil {
			return printFailure("Failed to read passphrase", err)
		}
	}

	spinner, cleanup := startSpinner("Building musings...", verbose)
	defer cleanup()

	result, err := workflows.Build(context.Background(), workflows.BuildOptions{
		Posts:      list,
		Passphrase: passphrase,
		Prune:      buildPrune,
		OutDir:     cfg.Output.Dir,
		Codec:      blob.NewCodec(cfg.KDFParams()),
		DryRun:     buildDryRun,
		Logger:     Logger,
		Audit:      audit.NewLogger(cfg.AuditLogPath()),
		Progress: func(done, total int, post *posts.Post) {
			setProgress(spinner, "Encoding %s (%d/%d)...", post.ID, done+1, total)
		},
	})
	if err != nil {
		spinner.FinalMSG = failureMessage("Build failed", err)
		return err
	}

	spinner.FinalMSG = buildSummary(result, cfg.Output.Dir)
	return nil
}

func buildSummary(result *workflows.BuildResult, out string) string {
	var total int64
	for _, e := range result.Written {
		total += e.Size
	}

	headline := "Built"
	if result.DryRun {
		headline = ui.Warning.Sprint("[dry-run]") + " Would build"
	}
	msg := fmt.Sprintf("%s %s %d %s into %s %s\n",
		ui.Check(), headline, len(result.Written), utils.Plural(len(result.Written), "post", "posts"),
		ui.Path.Sprint(out), ui.Muted.Sprint(utils.FormatSize(total)))
	msg += fmt.Sprintf("    %s %d    %s %d\n",
		ui.TierLabel(string(blob.TierPublic)), result.Public,
		ui.TierLabel(string(blob.TierMaster)), result.Private)

	switch result.ManifestState {
	case manifest.Missing:
		msg += ui.Arrow() + " Started a new manifest\n"
	case manifest.Malformed:
		msg += ui.Warning.Sprint("⚠") + " The previous manifest was unreadable and has been rebuilt\n"
	}

	msg += fmt.Sprintf("%s Manifest lists %d %s", ui.Arrow(), len(result.Entries), utils.Plural(len(result.Entries), "entry", "entries"))

	if len(result.Pruned) > 0 {
		msg += fmt.Sprintf("\n%s Pruned %d %s from the manifest:", ui.Arrow(), len(result.Pruned), utils.Plural(len(result.Pruned), "entry", "entries"))
		for _, id := range result.Pruned {
			msg += "\n    - " + ui.PostID.Sprint(id)
		}
	}
	if len(result.Orphaned) > 0 {
		msg += "\n" + ui.Arrow() + " These blob files are no longer listed and were left in place:" + utils.FormatPaths(result.Orphaned)
	}
	return msg
}

func hasPrivate(list []*posts.Post) bool {
	for _, p := range list {
		if p.IsPrivate() {
			return true
		}
	}
	return false
}
