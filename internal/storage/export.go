package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    *RunMetadata `json:"run"`
	Header []string     `json:"header"`
	Steps  []int        `json:"steps"`
	Rows   [][]float64  `json:"rows"`
}

// ExportJSON writes the metadata and stats of a run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    meta,
		Header: stats.Header,
		Steps:  stats.Steps,
		Rows:   stats.Rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
