package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/musings/internal/configs"
)

// Scrypt cost used by every CLI test so builds stay fast.
const testConfig = `[kdf]
n = 1024
r = 8
p = 1
`

const testPassphrase = "correct horse battery staple"

// setupWorkspace changes into a fresh directory holding musings.toml, an
// empty source directory and no passphrase in the environment.
func setupWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		ResetGlobalState()
	})

	t.Setenv("NO_COLOR", "1")

	// t.Setenv restores the original value, so unsetting afterwards is safe.
	t.Setenv(configs.EnvPassphrase, "")
	if err := os.Unsetenv(configs.EnvPassphrase); err != nil {
		t.Fatalf("Failed to unset %s: %v", configs.EnvPassphrase, err)
	}

	writeFile(t, configs.DefaultConfigFile, testConfig)
	if err := os.MkdirAll(configs.DefaultSourceDir, 0755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// writePost drops a post into the default source directory.
func writePost(t *testing.T, id, privacy, date, body string) string {
	t.Helper()
	path := filepath.Join(configs.DefaultSourceDir, id+".md")
	writeFile(t, path, "---\ntitle: "+id+"\ndate: "+date+"\nprivacy: "+privacy+"\n---\n"+body+"\n")
	return path
}

// writeKeyFile stores the test passphrase where build looks by default.
func writeKeyFile(t *testing.T) {
	t.Helper()
	writeFile(t, filepath.Join(configs.DefaultSourceDir, configs.DefaultKeyFileName), testPassphrase+"\n")
}

// runCLI executes the root command with args and returns everything
// written to stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
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

	// Order between the two pipes is not fixed.
	first := <-outputChan
	second := <-outputChan

	return first + second, err
}
