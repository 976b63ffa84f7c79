package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/grainsim/internal/codec"
	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	gridFile     = "grid.json"
)

// ErrNoGrid indicates a run saved without a final grid snapshot.
var ErrNoGrid = errors.New("storage: run has no grid snapshot")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Mode      string             `json:"mode"`
	Kernel    string             `json:"kernel"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Steps     int                `json:"steps"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Stats is the per-step table of a run.
type Stats struct {
	Header []string
	Steps  []int
	Rows   [][]float64
}

// Column returns the series for the named metric.
func (st *Stats) Column(name string) ([]float64, bool) {
	for i, h := range st.Header {
		if h != name {
			continue
		}
		col := make([]float64, len(st.Rows))
		for j, row := range st.Rows {
			if i < len(row) {
				col[j] = row[i]
			}
		}
		return col, true
	}
	return nil, false
}

// Save writes a run directory holding the metadata, the recorded stats and
// the final grid. g may be nil.
func (s *Store) Save(cfg *config.Config, rec *metrics.Recorder, g *lattice.Grid) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Mode, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Mode:      cfg.Mode,
		Kernel:    cfg.Kernel,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Steps:     rec.Len(),
		Config:    cfg,
		Metrics:   rec.Final(),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStats(filepath.Join(runDir, statsFile), rec); err != nil {
		return "", err
	}
	if g != nil {
		f, err := os.Create(filepath.Join(runDir, gridFile))
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := codec.EncodeText(f, g); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStats(path string, rec *metrics.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"step"}, rec.Header()...)
	if err := w.Write(header); err != nil {
		return err
	}

	steps := rec.Steps()
	for i, values := range rec.Rows() {
		row := []string{strconv.Itoa(steps[i])}
		for _, v := range values {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStats(runID string) (*Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	if len(records) == 0 {
		return stats, nil
	}
	stats.Header = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			row = append(row, v)
		}
		stats.Steps = append(stats.Steps, step)
		stats.Rows = append(stats.Rows, row)
	}

	return stats, nil
}

func (s *Store) LoadGrid(runID string) (*lattice.Grid, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, gridFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoGrid, runID)
		}
		return nil, err
	}
	defer f.Close()

	return codec.DecodeText(f)
}
