package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/musings/internal/configs"
)

// runValidateCLI runs validate with a mocked exit and returns the exit
// code it asked for, or -1 when it did not exit.
func runValidateCLI(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	exitCode := -1
	ResetGlobalState()
	// Set mock after ResetGlobalState is called
	SetValidateExitFunc(func(code int) { exitCode = code })
	RootCmd.SetArgs(append([]string{"validate"}, args...))
	output, err := captureOutput(func() error {
		return RootCmd.Execute()
	})
	return output, exitCode, err
}

func buildSite(t *testing.T) {
	t.Helper()
	writeKeyFile(t)
	writePost(t, "open", "public", "2024-01-01", "hello")
	writePost(t, "diary", "private", "2024-01-02", "secret")
	if output, err := runCLI(t, "build"); err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
}

func TestValidateCleanSite(t *testing.T) {
	setupWorkspace(t)
	buildSite(t)

	output, code, err := runValidateCLI(t)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, output)
	}
	if code != -1 {
		t.Errorf("Expected no exit, got code %d", code)
	}
	if !strings.Contains(output, "All 2 entries valid, 1 decrypted") {
		t.Errorf("Expected clean summary, got: %s", output)
	}
}

func TestValidateWithoutPassphraseSkipsDecryption(t *testing.T) {
	setupWorkspace(t)
	buildSite(t)
	if err := os.Remove(filepath.Join(configs.DefaultSourceDir, configs.DefaultKeyFileName)); err != nil {
		t.Fatalf("Failed to remove key file: %v", err)
	}

	output, code, err := runValidateCLI(t)
	if err != nil || code != -1 {
		t.Fatalf("Expected success, got code %d err %v\n%s", code, err, output)
	}
	if !strings.Contains(output, "were not decrypted") {
		t.Errorf("Expected a no-decryption note, got: %s", output)
	}
}

func TestValidateTamperedBlobExitsTwo(t *testing.T) {
	setupWorkspace(t)
	buildSite(t)

	writeFile(t, filepath.Join(configs.DefaultOutputDir, "data", "open.json"), `{"v":1}`)

	output, code, err := runValidateCLI(t)
	if err != nil {
		t.Fatalf("validate returned an error: %v", err)
	}
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(output, "'open'") || !strings.Contains(output, "1 of 2 entries failed") {
		t.Errorf("Expected the failing entry to be reported, got: %s", output)
	}
}

func TestValidateWrongPassphraseExitsTwo(t *testing.T) {
	setupWorkspace(t)
	buildSite(t)
	t.Setenv(configs.EnvPassphrase, "not the passphrase")

	output, code, err := runValidateCLI(t)
	if err != nil {
		t.Fatalf("validate returned an error: %v", err)
	}
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(output, "'diary'") {
		t.Errorf("Expected diary to fail, got: %s", output)
	}
}

func TestValidateJSONOutput(t *testing.T) {
	setupWorkspace(t)
	buildSite(t)
	if err := os.Remove(filepath.Join(configs.DefaultOutputDir, "data", "diary.json")); err != nil {
		t.Fatalf("Failed to remove blob: %v", err)
	}

	output, code, err := runValidateCLI(t, "--json")
	if err != nil {
		t.Fatalf("validate returned an error: %v", err)
	}
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}

	var result struct {
		Manifest string `json:"manifest"`
		Checked  int    `json:"checked"`
		Failures []struct {
			ID     string `json:"id"`
			Path   string `json:"path"`
			Reason string `json:"reason"`
		} `json:"failures"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, output)
	}
	if result.Checked != 2 || len(result.Failures) != 1 {
		t.Fatalf("Unexpected result: %+v", result)
	}
	if f := result.Failures[0]; f.ID != "diary" || f.Path != "data/diary.json" || f.Reason != "missing blob" {
		t.Errorf("Unexpected failure: %+v", f)
	}
}

func TestValidateMissingManifest(t *testing.T) {
	setupWorkspace(t)

	output, code, err := runValidateCLI(t)
	if err != nil {
		t.Fatalf("validate returned an error: %v", err)
	}
	if code != -1 {
		t.Errorf("Expected no exit, got code %d", code)
	}
	if !strings.Contains(output, "nothing to validate") {
		t.Errorf("Expected a missing manifest note, got: %s", output)
	}
}
