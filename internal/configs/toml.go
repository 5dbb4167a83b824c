package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SaveTOML writes data to filePath, creating parent directories.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// LoadTOML decodes filePath into data. Keys with no matching field are an
// error.
func LoadTOML(filePath string, data interface{}) error {
	md, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

// WriteDefault writes the default configuration to path, with sourceDir
// replacing the default source directory when set. An existing file is
// left alone and reported as os.ErrExist.
func WriteDefault(path, sourceDir string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s: %w", path, os.ErrExist)
	}
	cfg := Default()
	if sourceDir != "" {
		cfg.Source.Dir = sourceDir
	}
	if err := SaveTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}
