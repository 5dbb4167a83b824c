package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
	"github.com/PolarWolf314/musings/internal/utils"
)

// PassphraseSource names where a passphrase came from, for logs.
type PassphraseSource string

const (
	SourceNone          PassphraseSource = ""
	SourceStdin         PassphraseSource = "stdin"
	SourcePrompt        PassphraseSource = "prompt"
	SourceKeyFile       PassphraseSource = "key file"
	SourceEnv           PassphraseSource = EnvPassphrase
	SourceSourceKeyFile PassphraseSource = "source key file"
)

// PassphraseOptions lists the places a passphrase may come from. They are
// tried in field order and the first one present wins.
type PassphraseOptions struct {
	FromStdin bool
	Prompt    bool

	// KeyFile is an explicitly configured key file. It must exist.
	KeyFile string

	// DefaultKeyFile is tried last and may be absent.
	DefaultKeyFile string

	// Hooks, replaced in tests.
	ReadStdin    func() ([]byte, error)
	ReadPassword func(prompt string) ([]byte, error)
	LookupEnv    func(string) (string, bool)
}

// ResolvePassphrase returns the first passphrase found, trimmed of
// surrounding whitespace. When no source is present it returns SourceNone
// and no error; callers decide whether a passphrase was required.
func ResolvePassphrase(opts PassphraseOptions) ([]byte, PassphraseSource, error) {
	readStdin := opts.ReadStdin
	if readStdin == nil {
		readStdin = utils.ReadStdin
	}
	readPassword := opts.ReadPassword
	if readPassword == nil {
		readPassword = utils.ReadPassphrase
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	switch {
	case opts.FromStdin:
		data, err := readStdin()
		if err != nil {
			return nil, SourceNone, fmt.Errorf("failed to read passphrase from stdin: %w", err)
		}
		return nonEmpty(data, SourceStdin)

	case opts.Prompt:
		data, err := readPassword("Passphrase: ")
		if err != nil {
			return nil, SourceNone, err
		}
		return nonEmpty(data, SourcePrompt)

	case opts.KeyFile != "":
		data, err := os.ReadFile(opts.KeyFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil, SourceNone, fmt.Errorf("%w: %s", kerrors.ErrKeyFileNotFound, opts.KeyFile)
		}
		if err != nil {
			return nil, SourceNone, fmt.Errorf("failed to read key file %s: %w", opts.KeyFile, err)
		}
		return nonEmpty(data, SourceKeyFile)
	}

	if v, ok := lookupEnv(EnvPassphrase); ok {
		return nonEmpty([]byte(v), SourceEnv)
	}

	if opts.DefaultKeyFile != "" {
		data, err := os.ReadFile(opts.DefaultKeyFile)
		switch {
		case err == nil:
			return nonEmpty(data, SourceSourceKeyFile)
		case !errors.Is(err, os.ErrNotExist):
			return nil, SourceNone, fmt.Errorf("failed to read key file %s: %w", opts.DefaultKeyFile, err)
		}
	}

	return nil, SourceNone, nil
}

func nonEmpty(data []byte, source PassphraseSource) ([]byte, PassphraseSource, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, SourceNone, fmt.Errorf("%w: from %s", kerrors.ErrEmptyPassphrase, source)
	}
	return []byte(trimmed), source, nil
}
