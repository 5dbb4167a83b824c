package publish_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/musings/internal/audit"
	"github.com/PolarWolf314/musings/internal/blob"
	"github.com/PolarWolf314/musings/internal/configs"
	"github.com/PolarWolf314/musings/test/integration/shared"
)

const passphrase = "tea at midnight"

func post(privacy, date, body string) string {
	return "---\ndate: " + date + "\nprivacy: " + privacy + "\n---\n" + body + "\n"
}

// initWorkspace runs init and lowers the scrypt cost it wrote.
func initWorkspace(t *testing.T) {
	t.Helper()
	shared.SetupWorkspace(t)

	if output, err := shared.RunCLI("init"); err != nil {
		t.Fatalf("init failed: %v\n%s", err, output)
	}
	data, err := os.ReadFile(configs.DefaultConfigFile)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "n = 32768") {
		t.Fatalf("Expected default scrypt cost in config, got:\n%s", data)
	}
	shared.WriteFile(t, configs.DefaultConfigFile, strings.Replace(string(data), "n = 32768", "n = 1024", 1))
}

func srcPath(name string) string {
	return filepath.Join(configs.DefaultSourceDir, name)
}

// TestPublishLifecycle walks a site through init, build, validate, add,
// prune and validate again.
func TestPublishLifecycle(t *testing.T) {
	initWorkspace(t)
	shared.WriteFile(t, srcPath("hello.md"), post("public", "2024-01-01 09:00", "hello world"))
	shared.WriteFile(t, srcPath("secret.md"), post("private", "2024-02-01 21:30", "just for friends"))

	output, err := shared.RunCLIWithStdin([]byte(passphrase+"\n"), "build", "--passphrase-stdin")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Built 2 posts") {
		t.Errorf("Expected build summary, got: %s", output)
	}

	entries := shared.ReadManifest(t, configs.DefaultOutputDir)
	if len(entries) != 2 || entries[0].ID != "secret" || entries[0].Tier != blob.TierMaster {
		t.Fatalf("Unexpected manifest: %+v", entries)
	}

	// A key file outside the source directory.
	shared.WriteFile(t, "pass.txt", passphrase)
	output, code, err := shared.RunValidate("--key-file", "pass.txt")
	if err != nil || code != -1 {
		t.Fatalf("validate failed with code %d: %v\n%s", code, err, output)
	}
	if !strings.Contains(output, "1 decrypted") {
		t.Errorf("Expected the private post to be decrypted, got: %s", output)
	}

	shared.AppendFile(t, srcPath("hello.md"), "a second line\n")
	output, err = shared.RunCLI("add", "hello.md")
	if err != nil {
		t.Fatalf("add failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Updated 'hello'") {
		t.Errorf("Expected hello to be updated, got: %s", output)
	}

	if err := os.Remove(srcPath("secret.md")); err != nil {
		t.Fatalf("Failed to remove post: %v", err)
	}
	output, err = shared.RunCLI("build", "--prune")
	if err != nil {
		t.Fatalf("prune build failed: %v\n%s", err, output)
	}
	entries = shared.ReadManifest(t, configs.DefaultOutputDir)
	if len(entries) != 1 || entries[0].ID != "hello" {
		t.Fatalf("Expected only hello after prune, got %+v", entries)
	}

	output, code, err = shared.RunValidate()
	if err != nil || code != -1 {
		t.Fatalf("validate after prune failed with code %d: %v\n%s", code, err, output)
	}

	log, err := audit.ReadEntries(configs.Default().AuditLogPath())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	var ops []string
	for _, e := range log {
		ops = append(ops, e.Operation)
	}
	if got := strings.Join(ops, ","); got != "build,validate,add,build,validate" {
		t.Errorf("Unexpected audit operations: %s", got)
	}
	if last := log[3]; len(last.Pruned) != 1 || last.Pruned[0] != "secret" {
		t.Errorf("Expected the prune to be audited, got %+v", last)
	}
}

func TestPublishPassphraseFromDotEnv(t *testing.T) {
	initWorkspace(t)
	shared.WriteFile(t, srcPath("secret.md"), post("private", "2024-02-01", "just for friends"))
	shared.WriteFile(t, configs.DotEnvFile, configs.EnvPassphrase+"="+passphrase+"\n")

	if output, err := shared.RunCLI("build"); err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
	output, code, err := shared.RunValidate()
	if err != nil || code != -1 {
		t.Fatalf("validate failed with code %d: %v\n%s", code, err, output)
	}
	if !strings.Contains(output, "1 decrypted") {
		t.Errorf("Expected the .env passphrase to open the post, got: %s", output)
	}
}

func TestPublishRebuildsUnreadableManifest(t *testing.T) {
	initWorkspace(t)
	shared.WriteFile(t, srcPath("hello.md"), post("public", "2024-01-01", "hello world"))
	shared.WriteFile(t, filepath.Join(configs.DefaultOutputDir, "manifest.json"), "{not json")

	output, code, err := shared.RunValidate()
	if err != nil {
		t.Fatalf("validate returned an error: %v", err)
	}
	if code != 2 {
		t.Errorf("Expected exit code 2 for an unreadable manifest, got %d", code)
	}

	output, err = shared.RunCLI("build")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "unreadable") {
		t.Errorf("Expected the rebuild to be reported, got: %s", output)
	}
	if entries := shared.ReadManifest(t, configs.DefaultOutputDir); len(entries) != 1 {
		t.Errorf("Expected one entry after rebuild, got %d", len(entries))
	}
}
