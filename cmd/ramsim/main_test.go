package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ramsim/internal/config"
	"github.com/san-kum/ramsim/internal/ram"
	"github.com/san-kum/ramsim/internal/storage"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	configFile = ""
	logLevel = config.DefaultLogLevel
	return cmd
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramsim.yaml")
	if err := os.WriteFile(path, []byte("rows: 3\ncols: 5\nrefresh_ms: 200\nseed: 11\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	configFile = path
	if err := cmd.Flags().Parse([]string{"--cols", "6"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Rows != 3 || cfg.Cols != 6 || cfg.RefreshMs != 200 || cfg.Seed != 11 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestResolveConfigRejectsBadRefresh(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.Flags().Parse([]string{"--refresh", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd); err != config.ErrRefresh {
		t.Errorf("expected ErrRefresh, got %v", err)
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	cfg := config.DefaultConfig()
	cfg.Rows, cfg.Cols, cfg.Seed = 2, 4, 5

	src, origin, err := resolveSource(cfg, st, "")
	if err != nil || origin != "random" {
		t.Fatalf("expected random source, got %q %v", origin, err)
	}
	if _, err := ram.New(2, 4, src); err != nil {
		t.Errorf("random fill failed: %v", err)
	}

	cfg.Preset = "ones"
	_, origin, err = resolveSource(cfg, st, "")
	if err != nil || origin != "preset:ones" {
		t.Errorf("expected preset source, got %q %v", origin, err)
	}

	cfg.Preset = "missing"
	if _, _, err := resolveSource(cfg, st, ""); err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}

	bank, _ := ram.New(2, 4, ram.FromReader(strings.NewReader("1100\n0011\n")))
	id, err := st.Save(bank, 5, "test")
	if err != nil {
		t.Fatal(err)
	}
	src, origin, err = resolveSource(cfg, st, id)
	if err != nil || origin != "snapshot:"+id {
		t.Fatalf("expected snapshot source, got %q %v", origin, err)
	}
	restored, err := ram.New(2, 4, src)
	if err != nil || restored.String() != "1100\n0011\n" {
		t.Errorf("unexpected restored grid %v %v", restored, err)
	}

	if _, _, err := resolveSource(cfg, st, "snap_missing"); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}

func TestResolveSourceSnapshotSize(t *testing.T) {
	st := storage.New(t.TempDir())
	saved, _ := ram.New(2, 4, ram.FromReader(strings.NewReader("1100\n0011\n")))
	id, err := st.Save(saved, 5, "test")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	src, _, err := resolveSource(cfg, st, id)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Rows != 2 || cfg.Cols != 4 {
		t.Errorf("expected snapshot size 2x4, got %dx%d", cfg.Rows, cfg.Cols)
	}

	restored, err := ram.New(cfg.Rows, cfg.Cols, src)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.String() != "1100\n0011\n" {
		t.Errorf("unexpected restored grid %q", restored.String())
	}
}

func TestWriteSnapshotVoltages(t *testing.T) {
	st := storage.New(t.TempDir())
	saved, _ := ram.New(2, 4, ram.FromReader(strings.NewReader("1100\n0011\n")))
	id, err := st.Save(saved, 5, "test")
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	volts, err := st.LoadVoltages(id)
	if err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	if err := writeSnapshot(&out, meta, saved, volts); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "1100\n0011\n") {
		t.Errorf("expected bit grid in output, got %q", text)
	}
	if !strings.Contains(text, "voltages:") || strings.Count(text, "5V") != 4 || strings.Count(text, "0V") != 4 {
		t.Errorf("expected saved voltage grid in output, got %q", text)
	}
}
