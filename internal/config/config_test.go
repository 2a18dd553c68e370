package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	cfg "github.com/nvalles/courseplanner/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./course_catalog.db",
		"source.file":   "data/courses.csv",
		"language":      "en",
	}
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults, nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "sqlite" {
		t.Fatalf("expected sqlite, got %q", got.Database.Type)
	}
	if got.Source.File != "data/courses.csv" {
		t.Fatalf("expected default source file, got %q", got.Source.File)
	}
}

func TestLoadConfigReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/db\nlanguage: de\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	defaults := map[string]any{"database.type": "sqlite", "database.dsn": "./course_catalog.db", "language": "en"}
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults, &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
}

func TestLoadConfigFlagOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: sqlite\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.Flags().String("database.type", "", "")
	if err := cmd.Flags().Set("database.type", "mysql"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](cmd, nil, &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "mysql" {
		t.Fatalf("expected flag to win, got %q", got.Database.Type)
	}
}

func TestWriteConfigFileCreatesFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.DSN = "./course_catalog.db"
	c.Language = "en"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
}
