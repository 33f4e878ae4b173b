package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ramsim/internal/ram"
)

const (
	metadataFile = "metadata.json"
	gridFile     = "grid.txt"
	voltageFile  = "voltages.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SnapshotMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Seed      int64     `json:"seed"`
	Source    string    `json:"source"`
	View      string    `json:"view"`
	Charged   int       `json:"charged"`
}

// Save writes the bank's bit grid in the rows file format alongside its
// voltages and metadata. source describes where the bank was loaded from.
func (s *Store) Save(bank *ram.Bank, seed int64, source string) (string, error) {
	ts := s.now()
	snapID := fmt.Sprintf("snap_%d", ts.UnixNano())
	snapDir := filepath.Join(s.baseDir, snapID)

	if err := os.MkdirAll(snapDir, 0755); err != nil {
		return "", err
	}

	meta := SnapshotMetadata{
		ID:        snapID,
		Timestamp: ts,
		Rows:      bank.Rows(),
		Cols:      bank.Cols(),
		Seed:      seed,
		Source:    source,
		View:      bank.View().String(),
		Charged:   bank.Charged(),
	}

	metaFile, err := os.Create(filepath.Join(snapDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(snapDir, gridFile), []byte(bank.String()), 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(snapDir, voltageFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	for _, row := range bank.Voltages() {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return snapID, nil
}

// List returns snapshot metadata, oldest first. Unreadable entries are skipped.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	snaps := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *meta)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Timestamp.Before(snaps[j].Timestamp) })
	return snaps, nil
}

func (s *Store) Load(snapID string) (*SnapshotMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, snapID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// GridSource returns a source that refills a bank from a snapshot's bit grid.
func (s *Store) GridSource(snapID string) ram.Source {
	return ram.FromFile(filepath.Join(s.baseDir, snapID, gridFile))
}

// LoadVoltages reads the voltage grid saved with a snapshot.
func (s *Store) LoadVoltages(snapID string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, snapID, voltageFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readVoltages(file)
}

func readVoltages(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	volts := make([][]float64, 0, len(records))
	for _, record := range records {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		volts = append(volts, row)
	}
	return volts, nil
}
