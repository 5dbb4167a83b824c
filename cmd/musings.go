package cmd

import (
	"fmt"

	logger "github.com/PolarWolf314/musings/internal/logging"
	"github.com/PolarWolf314/musings/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	RootCmd = &cobra.Command{
		Use:   "musings",
		Short: "Publish markdown musings as public or passphrase-sealed JSON blobs",
		Long: `Musings turns a directory of markdown posts into a static bundle a website can serve.

Public posts are written as plain JSON. Private posts are sealed with
AES-256-GCM under a key derived from one shared passphrase with scrypt, so
only readers who know the passphrase can open them in the browser.

Every build writes data/<id>.json per post and a manifest.json listing them
newest first, with each blob's size and SHA-256.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			figure.NewColorFigure("musings", "standard", "cyan", true).Print()
			fmt.Println()
			fmt.Printf("%s Run %s to publish your posts\n", ui.Arrow(), ui.Code.Sprint("musings build"))
			fmt.Printf("%s Run %s to see every command\n", ui.Arrow(), ui.Code.Sprint("musings --help"))
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to musings.toml (default: nearest musings.toml above the working directory)")

	RootCmd.AddCommand(buildCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(initCmd)
}

// ResetGlobalState resets flags and package state between tests.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetSourceFlagState()
	resetBuildCommandState()
	resetAddCommandState()
	resetValidateCommandState()
	resetInitCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears Changed on every flag so a previous Execute
// does not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
