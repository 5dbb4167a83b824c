// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up a musings workspace,
// running the CLI and capturing its output.
package shared

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/musings/cmd"
	"github.com/PolarWolf314/musings/internal/configs"
	"github.com/PolarWolf314/musings/internal/manifest"
)

// FastKDF keeps scrypt cheap enough for tests.
const FastKDF = "[kdf]\nn = 1024\nr = 8\np = 1\n"

// SetupWorkspace changes into a fresh temp directory with no MUSINGS_*
// variables in the environment.
func SetupWorkspace(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		cmd.ResetGlobalState()
	})

	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{configs.EnvPassphrase, configs.EnvSourceDir, configs.EnvOutputDir, configs.EnvKeyFile, configs.EnvTimezone} {
		// t.Setenv restores the original value, so unsetting afterwards is safe.
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("Failed to unset %s: %v", name, err)
		}
	}
	return tempDir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	// #nosec G306 -- test fixtures
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// AppendFile appends content to an existing file.
func AppendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("Failed to append to %s: %v", path, err)
	}
}

// ReadManifest decodes the manifest under outDir.
func ReadManifest(t *testing.T, outDir string) []manifest.Entry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, manifest.FileName))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	var entries []manifest.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Failed to decode manifest: %v", err)
	}
	return entries
}

// RunCLI runs the musings root command with args.
func RunCLI(args ...string) (string, error) {
	return CaptureOutput(func() error {
		return execute(args)
	})
}

// RunCLIWithStdin runs the musings root command with stdin fed from input.
func RunCLIWithStdin(input []byte, args ...string) (string, error) {
	return CaptureOutputWithStdin(input, func() error {
		return execute(args)
	})
}

// RunValidate runs validate with a mocked exit and returns the exit code
// it asked for, or -1 when it did not exit.
func RunValidate(args ...string) (string, int, error) {
	exitCode := -1
	output, err := CaptureOutput(func() error {
		cmd.ResetGlobalState()
		// Set mock after ResetGlobalState is called
		cmd.SetValidateExitFunc(func(code int) { exitCode = code })
		cmd.RootCmd.SetArgs(append([]string{"validate"}, args...))
		return cmd.RootCmd.Execute()
	})
	return output, exitCode, err
}

func execute(args []string) error {
	cmd.ResetGlobalState()
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	cmd.RootCmd.SetArgs(args)
	return cmd.RootCmd.Execute()
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	copyPipe := func(r io.Reader) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}
	go copyPipe(stdoutReader)
	go copyPipe(stderrReader)

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan

	return first + second, err
}

// CaptureOutputWithStdin is CaptureOutput with os.Stdin replaced by a pipe
// holding input.
func CaptureOutputWithStdin(input []byte, fn func() error) (string, error) {
	originalStdin := os.Stdin
	stdinReader, stdinWriter, err := os.Pipe()
	if err != nil {
		return "", err
	}
	go func() {
		_, _ = stdinWriter.Write(input)
		stdinWriter.Close()
	}()

	os.Stdin = stdinReader
	defer func() {
		os.Stdin = originalStdin
		stdinReader.Close()
	}()

	return CaptureOutput(fn)
}
