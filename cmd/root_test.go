package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

// withManifest points the package-level manifest flag at a temp manifest and
// restores it when the test finishes.
func withManifest(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ensemble.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	original := manifestPath
	manifestPath = path
	t.Cleanup(func() { manifestPath = original })
}

const testManifest = `
name: shop
components:
  db:
    type: kvstore
  cache:
    type: kvstore
    dependsOn:
      - db
  api:
    type: httpserver
    dependsOn:
      - db
      - cache
    args:
      addr: "127.0.0.1:0"
`

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("9.9.9")
	if GetVersion() != "9.9.9" {
		t.Errorf("Expected version 9.9.9, got %s", GetVersion())
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{"up", "order", "list", "validate", "console", "version", "self-update"}
	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestRootCommandSilencesUsage(t *testing.T) {
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be set")
	}
}
