package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/musings/internal/configs"
	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/ui"
	"github.com/PolarWolf314/musings/internal/utils"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// Flags shared by the commands that read posts or write output. Each
// command registers only the ones it uses.
var (
	srcDir          string
	outDir          string
	keyFile         string
	passphraseStdin bool
	promptPass      bool
)

func resetSourceFlagState() {
	srcDir = ""
	outDir = ""
	keyFile = ""
	passphraseStdin = false
	promptPass = false
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&srcDir, "src", "", "directory holding the markdown posts (default \"musings_src\")")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outDir, "out", "", "directory receiving manifest.json and data/ (default \"public/musings\")")
}

func addPassphraseFlags(cmd *cobra.Command, withStdin bool) {
	cmd.Flags().StringVar(&keyFile, "key-file", "", "file holding the passphrase (default \"<src>/key.txt\" when present)")
	cmd.Flags().BoolVar(&promptPass, "prompt", false, "prompt for the passphrase without echo")
	if withStdin {
		cmd.Flags().BoolVar(&passphraseStdin, "passphrase-stdin", false, "read the passphrase from stdin")
	}
}

// loadConfig layers defaults, musings.toml, .env, MUSINGS_* and finally
// the command's own flags.
func loadConfig(cmd *cobra.Command) (*configs.Config, error) {
	if err := configs.LoadDotEnv(configs.DotEnvFile); err != nil {
		return nil, err
	}

	path, explicit := configPath, configPath != ""
	if !explicit {
		found, err := utils.FindUp(".", configs.DefaultConfigFile)
		if err != nil {
			Logger.Warnf("Could not search for %s: %v", configs.DefaultConfigFile, err)
		}
		path = relativeToWorkingDir(found)
	}

	cfg, err := configs.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		Logger.Debugf("Loaded config from %s", cfg.Path)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if flagChanged(cmd, "src") {
		cfg.Source.Dir = srcDir
	}
	if flagChanged(cmd, "out") {
		cfg.Output.Dir = outDir
	}
	if flagChanged(cmd, "key-file") {
		cfg.Source.KeyFile = keyFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Logger.Debugf("Source: %s, output: %s, timezone: %s, kdf: N=%d r=%d p=%d",
		cfg.Source.Dir, cfg.Output.Dir, cfg.Source.Timezone, cfg.KDF.N, cfg.KDF.R, cfg.KDF.P)
	return cfg, nil
}

// relativeToWorkingDir keeps paths derived from a found config short in
// output when the file sits in or above the working directory.
func relativeToWorkingDir(path string) string {
	if path == "" {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil {
		return rel
	}
	return path
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// resolvePassphrase finds the passphrase for cfg. A nil result with no
// error means no source was present.
func resolvePassphrase(cfg *configs.Config) ([]byte, error) {
	passphrase, source, err := configs.ResolvePassphrase(configs.PassphraseOptions{
		FromStdin:      passphraseStdin,
		Prompt:         promptPass,
		KeyFile:        cfg.Source.KeyFile,
		DefaultKeyFile: cfg.DefaultKeyFile(),
	})
	if err != nil {
		return nil, err
	}
	if source == configs.SourceNone {
		Logger.Infof("No passphrase found")
	} else {
		Logger.Infof("Using passphrase from %s", source)
	}
	return passphrase, nil
}

// failureMessage renders err for the final spinner line, with a hint for
// errors the user can fix.
func failureMessage(action string, err error) string {
	msg := ui.Cross() + " " + action + "\n" + ui.Error.Sprint("Error: ") + err.Error()

	var hint string
	switch {
	case errors.Is(err, kerrors.ErrPassphraseRequired), errors.Is(err, kerrors.ErrEmptyPassphrase):
		hint = "Pass " + ui.Flag.Sprint("--key-file") + " or " + ui.Flag.Sprint("--prompt") +
			", or set " + ui.Code.Sprint(configs.EnvPassphrase)
	case errors.Is(err, kerrors.ErrKeyFileNotFound):
		hint = "Check the path given to " + ui.Flag.Sprint("--key-file") + " or " + ui.Code.Sprint(configs.EnvKeyFile)
	case errors.Is(err, kerrors.ErrNoPostsFound), errors.Is(err, kerrors.ErrSourceUnreadable):
		hint = "Point " + ui.Flag.Sprint("--src") + " at the directory holding your .md posts"
	case errors.Is(err, kerrors.ErrInvalidConfig), errors.Is(err, kerrors.ErrInvalidTimezone):
		hint = "Fix " + ui.Path.Sprint(configs.DefaultConfigFile) + " or run " + ui.Code.Sprint("musings init") + " for a fresh one"
	case errors.Is(err, kerrors.ErrDuplicatePostID):
		hint = "Give one of the posts a distinct " + ui.Code.Sprint("id:") + " in its front matter"
	case errors.Is(err, kerrors.ErrMissingFrontMatter), errors.Is(err, kerrors.ErrInvalidFrontMatter),
		errors.Is(err, kerrors.ErrMissingTimestamp), errors.Is(err, kerrors.ErrInvalidTimestamp),
		errors.Is(err, kerrors.ErrInvalidPrivacy), errors.Is(err, kerrors.ErrInvalidPostID):
		hint = "Posts start with a " + ui.Code.Sprint("---") + " block holding at least " + ui.Code.Sprint("date:")
	}
	if hint != "" {
		msg += "\n" + ui.Arrow() + " " + hint
	}
	return msg
}

// printFailure is for errors raised before a spinner was started.
func printFailure(action string, err error) error {
	Logger.Errorf("%s: %v", action, err)
	fmt.Fprintln(os.Stderr, failureMessage(action, err))
	return err
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() does not print it a second time.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Printed here rather than by the spinner so tests can capture it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// setProgress replaces the spinner text, or logs it when the spinner is hidden.
func setProgress(s *spinner.Spinner, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if verbose || debug {
		Logger.Infof("%s", msg)
		return
	}
	s.Lock()
	s.Suffix = " " + msg
	s.Unlock()
}
