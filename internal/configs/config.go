package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/posts"
	"github.com/PolarWolf314/musings/internal/secrets"
)

// Config is the contents of musings.toml after env overrides.
type Config struct {
	Source SourceConfig `toml:"source"`
	Output OutputConfig `toml:"output"`
	KDF    KDFConfig    `toml:"kdf"`

	// Path is the file the config was read from, empty when only defaults apply.
	Path string `toml:"-"`
}

type SourceConfig struct {
	Dir      string `toml:"dir"`
	KeyFile  string `toml:"key_file,omitempty"`
	Timezone string `toml:"timezone"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

type KDFConfig struct {
	N int `toml:"n"`
	R int `toml:"r"`
	P int `toml:"p"`
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:      DefaultSourceDir,
			Timezone: posts.DefaultTimezone,
		},
		Output: OutputConfig{Dir: DefaultOutputDir},
		KDF: KDFConfig{
			N: secrets.DefaultKDFParams.N,
			R: secrets.DefaultKDFParams.R,
			P: secrets.DefaultKDFParams.P,
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// only an error when explicit is set, i.e. the user named it with --config.
// Unknown keys are rejected so typos do not silently fall back to defaults.
//
// Relative directories and key_file, including the defaults, are taken
// relative to the file's own directory so a config found in a parent
// directory points at the same tree from anywhere below it.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("%w: %s does not exist", kerrors.ErrInvalidConfig, path)
		}
		return cfg, nil
	}

	if err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	base := filepath.Dir(path)
	cfg.Source.Dir = relativeTo(base, cfg.Source.Dir)
	cfg.Output.Dir = relativeTo(base, cfg.Output.Dir)
	if cfg.Source.KeyFile != "" {
		cfg.Source.KeyFile = relativeTo(base, cfg.Source.KeyFile)
	}

	cfg.Path = path
	return cfg, nil
}

func relativeTo(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// ApplyEnv overrides file values with MUSINGS_* variables. lookup is
// os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSourceDir); ok && v != "" {
		c.Source.Dir = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Output.Dir = v
	}
	if v, ok := lookup(EnvKeyFile); ok && v != "" {
		c.Source.KeyFile = v
	}
	if v, ok := lookup(EnvTimezone); ok && v != "" {
		c.Source.Timezone = v
	}
}

// Validate checks values that would otherwise fail halfway through a build.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Dir) == "" {
		return fmt.Errorf("%w: source.dir is empty", kerrors.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("%w: output.dir is empty", kerrors.ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Source.Timezone); err != nil {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidTimezone, c.Source.Timezone)
	}
	if err := c.KDFParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	return nil
}

// KDFParams converts the [kdf] table into scrypt parameters.
func (c *Config) KDFParams() secrets.KDFParams {
	return secrets.KDFParams{N: c.KDF.N, R: c.KDF.R, P: c.KDF.P, KeyLen: secrets.KeySize}
}

// DefaultKeyFile is the key file looked up when none is configured.
func (c *Config) DefaultKeyFile() string {
	return filepath.Join(c.Source.Dir, DefaultKeyFileName)
}

// AuditLogPath is where build, add and validate runs are recorded.
func (c *Config) AuditLogPath() string {
	return filepath.Join(c.Source.Dir, StateDirName, AuditLogName)
}
