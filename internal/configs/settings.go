package configs

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigFile  = "musings.toml"
	DefaultSourceDir   = "musings_src"
	DefaultOutputDir   = "public/musings"
	DefaultKeyFileName = "key.txt"
	DotEnvFile         = ".env"

	// StateDirName holds tool state inside the source directory.
	StateDirName = ".musings"
	AuditLogName = "audit.jsonl"
)

// Environment variables read by the CLI.
const (
	EnvSourceDir  = "MUSINGS_SRC"
	EnvOutputDir  = "MUSINGS_OUT"
	EnvKeyFile    = "MUSINGS_KEY_FILE"
	EnvTimezone   = "MUSINGS_TIMEZONE"
	EnvPassphrase = "MUSINGS_PASSPHRASE"
)

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
