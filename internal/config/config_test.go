package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if got := GetInt("port"); got != 3000 {
		t.Errorf("port = %d, want 3000", got)
	}
	if GetBool("json") {
		t.Error("json default = true, want false")
	}
	if got := GetString("template"); got != "default" {
		t.Errorf("template = %q, want default", got)
	}
	if got := GetString("version-range"); got != "latest" {
		t.Errorf("version-range = %q, want latest", got)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KIT_PORT", "4000")
	t.Setenv("KIT_NO_INSTALL", "true")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if got := GetInt("port"); got != 4000 {
		t.Errorf("port = %d, want 4000 from KIT_PORT", got)
	}
	if !GetBool("no-install") {
		t.Error("no-install = false, want true from KIT_NO_INSTALL")
	}
}

func TestConfigFileDiscoveredFromSubdirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".kit"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".kit", "config.yaml"),
		[]byte("port: 5000\n"), 0600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "app", "views")
	if err := os.MkdirAll(sub, 0750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if got := GetInt("port"); got != 5000 {
		t.Errorf("port = %d, want 5000 from .kit/config.yaml", got)
	}
}

func TestSetOverridesEverything(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KIT_PORT", "4000")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	Set("port", 6000)
	if got := GetInt("port"); got != 6000 {
		t.Errorf("port = %d, want 6000 from Set", got)
	}
}
