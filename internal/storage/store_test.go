package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/ramsim/internal/ram"
)

func testBank(t *testing.T) *ram.Bank {
	t.Helper()
	b, err := ram.New(2, 4, ram.FromReader(strings.NewReader("1100\n0011\n")))
	if err != nil {
		t.Fatalf("bank failed: %v", err)
	}
	return b
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	bank := testBank(t)
	bank.ToggleView()

	snapID, err := st.Save(bank, 42, "rows.txt")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if snapID == "" {
		t.Error("expected non-empty snapshot id")
	}

	meta, err := st.Load(snapID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Rows != 2 || meta.Cols != 4 {
		t.Errorf("expected 2x4, got %dx%d", meta.Rows, meta.Cols)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Charged != 4 {
		t.Errorf("expected 4 charged cells, got %d", meta.Charged)
	}
	if meta.View != "voltage" {
		t.Errorf("expected voltage view, got %s", meta.View)
	}

	restored, err := ram.New(meta.Rows, meta.Cols, st.GridSource(snapID))
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !reflect.DeepEqual(restored.Bits(), bank.Bits()) {
		t.Errorf("expected %v, got %v", bank.Bits(), restored.Bits())
	}

	volts, err := st.LoadVoltages(snapID)
	if err != nil {
		t.Fatalf("load voltages failed: %v", err)
	}
	if !reflect.DeepEqual(volts, bank.Voltages()) {
		t.Errorf("expected %v, got %v", bank.Voltages(), volts)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	snaps, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(snaps) != 0 {
		t.Errorf("expected 0 snapshots, got %d", len(snaps))
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	first, err := st.Save(testBank(t), 1, "random")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(testBank(t), 2, "random"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snaps, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].ID != first {
		t.Errorf("expected oldest first, got %s", snaps[0].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	snaps, err := st.List()
	if err != nil || len(snaps) != 0 {
		t.Errorf("expected empty list, got %v %v", snaps, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	snapID, err := st.Save(testBank(t), 0, "random")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "grid.txt", "voltages.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, snapID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	grid, err := os.ReadFile(filepath.Join(tmpDir, snapID, "grid.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(grid) != "1100\n0011\n" {
		t.Errorf("unexpected grid file %q", grid)
	}
}
