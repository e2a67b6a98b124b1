package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newLevelCmd() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("log-level", "warn", "")
	return c
}

func TestLogLevel(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	if got := logLevel(newLevelCmd()); got != "warn" {
		t.Errorf("expected the flag default without config, got %q", got)
	}

	cfgPath := filepath.Join(tempDir, ".schedulectl.json")
	if err := os.WriteFile(cfgPath, []byte(`{"log_level": "info"}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if got := logLevel(newLevelCmd()); got != "info" {
		t.Errorf("expected the configured level, got %q", got)
	}

	t.Setenv("SCHEDULECTL_LOG_LEVEL", "debug")
	if got := logLevel(newLevelCmd()); got != "debug" {
		t.Errorf("expected the environment to override the file, got %q", got)
	}

	c := newLevelCmd()
	if err := c.Flags().Set("log-level", "error"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	if got := logLevel(c); got != "error" {
		t.Errorf("expected the flag to win, got %q", got)
	}
}
