package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreRun_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(badConfig, []byte("session:\n  exit_token: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	origConfig, origWorkspace := configPath, workspace
	defer func() { configPath, workspace = origConfig, origWorkspace }()
	configPath = badConfig
	workspace = dir

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	if err == nil {
		t.Fatal("PersistentPreRunE accepted a config with an empty exit token")
	}
	if !strings.Contains(err.Error(), "exit token") {
		t.Fatalf("error = %v, want exit token validation failure", err)
	}
}

func TestPreRun_AcceptsDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	origConfig, origWorkspace := configPath, workspace
	defer func() { configPath, workspace = origConfig, origWorkspace }()
	configPath = filepath.Join(dir, "missing.yaml")
	workspace = dir

	if err := rootCmd.PersistentPreRunE(rootCmd, nil); err != nil {
		t.Fatalf("PersistentPreRunE error = %v", err)
	}
	rootCmd.PersistentPostRun(rootCmd, nil)
}
