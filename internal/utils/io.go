package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadStdin reads all piped content from stdin.
// Returns an error if stdin is a terminal or empty.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// ModeCharDevice means a terminal, not a pipe.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: echo \"$PASSPHRASE\" | musings build --passphrase-stdin)")
	}

	return ReadAll(os.Stdin)
}

// ReadAll reads r to the end and rejects empty input.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	return data, nil
}
