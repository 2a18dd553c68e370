// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nvalles/courseplanner/internal/config"
	"github.com/nvalles/courseplanner/internal/db"
	"github.com/nvalles/courseplanner/internal/i18n"
	"github.com/nvalles/courseplanner/internal/model"
)

func TestBackupFileRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "snapshot.json.zst")

	data := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Courses: []model.BackupCourse{
			{Number: "CS100", Name: "Introduction to Computer Science"},
			{Number: "CS101", Name: "Programming Fundamentals", Prerequisites: []string{"CS100"}},
		},
	}
	if err := writeCompressedBackup(path, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := readCompressedBackup(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, data)
	}
}

func TestReadCompressedBackupMissingFile(t *testing.T) {
	if _, err := readCompressedBackup(filepath.Join(t.TempDir(), "absent.json.zst")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSourceFilePrecedence(t *testing.T) {
	old := appConfig.Source.File
	appConfig.Source.File = "config.csv"
	defer func() { appConfig.Source.File = old }()

	if got := sourceFile([]string{"arg.csv"}); got != "arg.csv" {
		t.Errorf("positional argument should win, got %q", got)
	}
	if got := sourceFile(nil); got != "config.csv" {
		t.Errorf("config value should be the fallback, got %q", got)
	}
}

func TestRootCmdLoadsConfigFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cfgDir := filepath.Join(tmp, "courseplanner")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "database:\n  type: sqlite\n  dsn: ./from_file.db\nsource:\n  file: from_file.csv\nlanguage: en\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "courseplanner.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if appConfig.Database.DSN != "./from_file.db" {
		t.Errorf("dsn = %q, want ./from_file.db", appConfig.Database.DSN)
	}
	if appConfig.Source.File != "from_file.csv" {
		t.Errorf("source file = %q, want from_file.csv", appConfig.Source.File)
	}
}

func TestRootCmdFlagOverridesConfig(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version", "--db-dsn", "./flag.db", "--file", "flag.csv"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if appConfig.Database.DSN != "./flag.db" {
		t.Errorf("dsn = %q, want ./flag.db", appConfig.Database.DSN)
	}
	if appConfig.Source.File != "flag.csv" {
		t.Errorf("source file = %q, want flag.csv", appConfig.Source.File)
	}
}

func TestRootCmdWritesDefaultConfigOnFirstRun(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config at %s, stat error: %v", path, err)
	}
}

func TestStoreErrTranslatesSentinels(t *testing.T) {
	i18n.SetLang("en")

	err := storeErr(fmt.Errorf("course CS404: %w", db.ErrNotFound))
	if err == nil || err.Error() != "course CS404: not found" {
		t.Errorf("unexpected not-found message: %v", err)
	}

	if got := storeErr(db.ErrDuplicate); got == nil || got.Error() != "already exists" {
		t.Errorf("unexpected duplicate message: %v", got)
	}

	if got := storeErr(db.ErrBusy); got == nil || got.Error() != "the database is busy, try again" {
		t.Errorf("unexpected busy message: %v", got)
	}

	plain := errors.New("boom")
	if got := storeErr(plain); got != plain {
		t.Errorf("unclassified error should pass through, got %v", got)
	}
	if got := storeErr(nil); got != nil {
		t.Errorf("nil should stay nil, got %v", got)
	}
}

func TestNewRootCmdHasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"load", "list", "find", "validate", "migrate", "chain", "export", "restore", "maintenance", "clear", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %s is not registered", name)
		}
	}
}

func TestJoinNumbers(t *testing.T) {
	if got := joinNumbers([]string{"CS100", "MATH101"}); got != "CS100, MATH101" {
		t.Errorf("unexpected join: %q", got)
	}
}
