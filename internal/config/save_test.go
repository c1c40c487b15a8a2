package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := &Config{
		DefaultFormat: "yaml",
		Workspace:     "/srv/forms",
		UI:            UIConfig{Accent: "#7d56f4"},
	}
	if err := SaveTo(path, cfg); err != nil {
		t.Fatal(err)
	}

	back, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.DefaultFormat != "yaml" || back.Workspace != "/srv/forms" || back.UI.Accent != "#7d56f4" {
		t.Fatalf("config = %+v", back)
	}
}

func TestSaveToOmitsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := SaveTo(path, &Config{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"default_format", "workspace", "[ui]"} {
		if strings.Contains(string(data), key) {
			t.Fatalf("empty settings must be omitted, got:\n%s", data)
		}
	}
}

func TestSaveToRequiresPath(t *testing.T) {
	if err := SaveTo("  ", &Config{}); err == nil {
		t.Fatal("expected error for blank path")
	}
}
