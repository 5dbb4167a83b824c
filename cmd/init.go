package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/musings/internal/configs"
	"github.com/PolarWolf314/musings/internal/ui"
	"github.com/PolarWolf314/musings/internal/utils"

	"github.com/spf13/cobra"
)

// sourceIgnore keeps the passphrase file and tool state out of version control.
const sourceIgnore = configs.DefaultKeyFileName + "\n" + configs.StateDirName + "/\n"

var initSrcDir string

func init() {
	initCmd.Flags().StringVar(&initSrcDir, "src", "", "source directory to create (default \"musings_src\")")
}

func resetInitCommandState() {
	initSrcDir = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default musings.toml and create the source directory",
	Long: `Writes musings.toml with every default spelled out, creates the source
directory and drops a .gitignore into it so key.txt and .musings/ are never
committed. An existing musings.toml is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")

	path := configPath
	if path == "" {
		path = configs.DefaultConfigFile
	}
	cfg, err := configs.WriteDefault(path, initSrcDir)
	if errors.Is(err, os.ErrExist) {
		fmt.Printf("%s %s already exists\n", ui.Warning.Sprint("⚠"), ui.Path.Sprint(path))
		fmt.Printf("%s Delete it first if you want a fresh one\n", ui.Arrow())
		return nil
	}
	if err != nil {
		return printFailure("Failed to write configuration", err)
	}
	Logger.Debugf("Wrote %s", path)

	if err := os.MkdirAll(cfg.Source.Dir, 0755); err != nil {
		return printFailure("Failed to create source directory", err)
	}
	ignorePath := filepath.Join(cfg.Source.Dir, ".gitignore")
	if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
		if err := utils.WriteFileAtomic(ignorePath, []byte(sourceIgnore), 0644); err != nil {
			return printFailure("Failed to write .gitignore", err)
		}
	}

	fmt.Printf("%s Wrote %s\n", ui.Check(), ui.Path.Sprint(path))
	fmt.Printf("%s Put your posts in %s and run %s\n",
		ui.Arrow(), ui.Path.Sprint(cfg.Source.Dir), ui.Code.Sprint("musings build"))
	return nil
}
