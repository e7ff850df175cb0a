// Package storage keeps recorded trace runs on disk: one directory per run
// holding metadata.json and samples.csv.
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

	"github.com/san-kum/contrastanim/internal/trace"
)

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
	ID            string      `json:"id"`
	Timestamp     time.Time   `json:"timestamp"`
	Mode          string      `json:"mode"`
	Seed          int64       `json:"seed"`
	Duration      float64     `json:"duration_ms"`
	FrameInterval float64     `json:"frame_interval_ms"`
	Jitter        float64     `json:"jitter_ms"`
	Speed         float64     `json:"speed"`
	InitialValue  float64     `json:"initial_value"`
	Events        []string    `json:"events,omitempty"`
	Stats         trace.Stats `json:"stats"`
}

// Save writes a run and returns its id. mode is "virtual" or "live".
func (s *Store) Save(mode string, opts trace.Options, samples []trace.Sample) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("trace_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     now,
		Mode:          mode,
		Seed:          opts.Seed,
		Duration:      opts.Duration,
		FrameInterval: opts.FrameInterval,
		Jitter:        opts.Jitter,
		Speed:         opts.Speed,
		InitialValue:  opts.InitialValue,
		Stats:         trace.Summarize(samples),
	}
	for _, ev := range opts.Events {
		meta.Events = append(meta.Events, ev.String())
	}

	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "samples.csv"), func(w io.Writer) error {
		return trace.WriteCSV(w, samples)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadValues reads the time and value columns of a run.
func (s *Store) LoadValues(runID string) (times, values []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	values = make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, nil
}
