package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	"github.com/PolarWolf314/musings/internal/posts"
	"github.com/PolarWolf314/musings/internal/ui"
	"github.com/PolarWolf314/musings/internal/utils"
	"github.com/PolarWolf314/musings/internal/workflows"

	"github.com/spf13/cobra"
)

var addDryRun bool

func init() {
	addSourceFlags(addCmd)
	addOutputFlags(addCmd)
	addPassphraseFlags(addCmd, true)
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "show what would be written without touching the output directory")
}

func resetAddCommandState() {
	addDryRun = false
}

var addCmd = &cobra.Command{
	Use:   "add <post.md>",
	Short: "Publish or update a single post without rebuilding the rest",
	Long: `Encodes one post and upserts its manifest entry. Every other entry is left
exactly as it was, and the manifest is re-sorted newest first.

The path may be relative to the working directory or to --src.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting add command")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return printFailure("Failed to load configuration", err)
	}

	path, err := posts.ResolvePostPath(args[0], cfg.Source.Dir)
	if err != nil {
		return printFailure("Failed to find post", err)
	}
	loader, err := posts.NewLoader(cfg.Source.Timezone)
	if err != nil {
		return printFailure("Failed to load configuration", err)
	}
	post, err := loader.LoadFile(path)
	if err != nil {
		return printFailure("Failed to read post", err)
	}
	Logger.Debugf("Loaded %s from %s (privacy=%s)", post.ID, path, post.Privacy)

	var passphrase []byte
	if post.IsPrivate() {
		passphrase, err = resolvePassphrase(cfg)
		if err != nil {
			return printFailure("Failed to read passphrase", err)
		}
	}

	spinner, cleanup := startSpinner(fmt.Sprintf("Adding %s...", post.ID), verbose)
	defer cleanup()

	result, err := workflows.Add(context.Background(), workflows.AddOptions{
		Post:       post,
		Passphrase: passphrase,
		OutDir:     cfg.Output.Dir,
		Codec:      blob.NewCodec(cfg.KDFParams()),
		DryRun:     addDryRun,
		Logger:     Logger,
		Audit:      audit.NewLogger(cfg.AuditLogPath()),
	})
	if err != nil {
		spinner.FinalMSG = failureMessage("Failed to add "+ui.PostID.Sprint(post.ID), err)
		return err
	}

	verb := "Added"
	if result.Replaced {
		verb = "Updated"
	}
	if result.DryRun {
		verb = ui.Warning.Sprint("[dry-run]") + " Would have " + strings.ToLower(verb)
	}
	spinner.FinalMSG = fmt.Sprintf("%s %s %s %s %s\n%s Manifest lists %d %s",
		ui.Check(), verb, ui.PostID.Sprint(result.Entry.ID), ui.TierLabel(string(result.Entry.Tier)),
		ui.Muted.Sprint(utils.FormatSize(result.Entry.Size)),
		ui.Arrow(), result.Entries, utils.Plural(result.Entries, "entry", "entries"))
	return nil
}
