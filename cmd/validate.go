package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	"github.com/PolarWolf314/musings/internal/manifest"
	"github.com/PolarWolf314/musings/internal/ui"
	"github.com/PolarWolf314/musings/internal/utils"
	"github.com/PolarWolf314/musings/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	validateJSONOutput bool
	// validateExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	validateExitFunc = os.Exit
)

func init() {
	addSourceFlags(validateCmd)
	addOutputFlags(validateCmd)
	addPassphraseFlags(validateCmd, true)
	validateCmd.Flags().BoolVar(&validateJSONOutput, "json", false, "output in JSON format")
}

func resetValidateCommandState() {
	validateJSONOutput = false
	validateExitFunc = os.Exit
}

// SetValidateExitFunc sets the exit function for testing purposes.
func SetValidateExitFunc(f func(int)) {
	validateExitFunc = f
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check published blobs against the manifest",
	Long: `Re-reads every blob listed in manifest.json and checks that it exists, parses,
matches its entry's id, tier, size and SHA-256, and stays inside the output
directory. When a passphrase is available every master blob is also decrypted.

Exit codes:
  0 - Every entry checked out
  1 - Validation could not run
  2 - One or more entries failed

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting validate command")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return printFailure("Failed to load configuration", err)
	}
	passphrase, err := resolvePassphrase(cfg)
	if err != nil {
		return printFailure("Failed to read passphrase", err)
	}

	spinner, cleanup := startSpinner("Validating musings...", verbose)
	defer cleanup()

	result, err := workflows.Validate(context.Background(), workflows.ValidateOptions{
		OutDir:     cfg.Output.Dir,
		Passphrase: passphrase,
		Codec:      blob.NewCodec(cfg.KDFParams()),
		Logger:     Logger,
		Audit:      audit.NewLogger(cfg.AuditLogPath()),
	})
	if err != nil {
		spinner.FinalMSG = failureMessage("Failed to validate", err)
		return err
	}

	if validateJSONOutput {
		spinner.FinalMSG = ""
		if err := outputValidateJSON(result); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = validateSummary(result, len(passphrase) > 0)
	}

	if !result.OK() {
		// Deferred cleanup does not run past os.Exit.
		cleanup()
		validateExitFunc(2)
	}
	return nil
}

// outputValidateJSON outputs the result as JSON.
func outputValidateJSON(result *workflows.ValidateResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func validateSummary(result *workflows.ValidateResult, decrypting bool) string {
	var msg string
	for _, f := range result.Failures {
		label := f.ID
		if label == "" {
			label = f.Path
		}
		msg += fmt.Sprintf("%s %s %s\n", ui.Cross(), ui.PostID.Sprint(label), f.Reason)
	}

	if result.ManifestState == manifest.Missing {
		return msg + ui.Warning.Sprint("⚠") + " No manifest at " + ui.Path.Sprint(result.ManifestPath) + ", nothing to validate"
	}

	checked := fmt.Sprintf("%d %s", result.Checked, utils.Plural(result.Checked, "entry", "entries"))
	if !result.OK() {
		return msg + fmt.Sprintf("%s %d of %s failed", ui.Cross(), len(result.Failures), checked)
	}

	msg += fmt.Sprintf("%s All %s valid", ui.Check(), checked)
	if decrypting {
		msg += fmt.Sprintf(", %d decrypted", result.Decrypted)
	} else {
		msg += "\n" + ui.Arrow() + " No passphrase given, so master blobs were not decrypted"
	}
	return msg
}
