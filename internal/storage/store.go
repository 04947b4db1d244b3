package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"tick", "time", "id", "x", "y", "vx", "vy", "ax", "ay", "mass", "radius"}

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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	G           float64            `json:"g"`
	TickLength  float64            `json:"tick_length"`
	Ticks       int                `json:"ticks"`
	RecordEvery int                `json:"record_every"`
	Bodies      int                `json:"bodies"`
	Survivors   int                `json:"survivors"`
	Merges      uint64             `json:"merges"`
	Bounces     uint64             `json:"bounces"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a new run directory and returns its id. ID and Timestamp on
// meta are filled in.
func (s *Store) Save(meta RunMetadata, trace Trace) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", slug(meta.Name), now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTrace(csvFile, trace); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeTrace(out io.Writer, trace Trace) error {
	w := csv.NewWriter(out)
	if err := w.Write(traceHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range trace {
		row := []string{
			strconv.FormatUint(r.Tick, 10),
			f(r.Time),
			strconv.FormatUint(r.ID, 10),
			f(r.Position.X), f(r.Position.Y),
			f(r.Velocity.X), f(r.Velocity.Y),
			f(r.Acceleration.X), f(r.Acceleration.Y),
			f(r.Mass), f(r.Radius),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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

func (s *Store) LoadTrace(runID string) (Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return Trace{}, nil
	}

	trace := make(Trace, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		trace = append(trace, row)
	}
	return trace, nil
}

func parseRow(record []string) (Row, error) {
	var r Row
	var err error

	if r.Tick, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return r, err
	}
	if r.ID, err = strconv.ParseUint(record[2], 10, 64); err != nil {
		return r, err
	}

	vals := make([]float64, 0, 9)
	for _, idx := range []int{1, 3, 4, 5, 6, 7, 8, 9, 10} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return r, err
		}
		vals = append(vals, v)
	}

	r.Time = vals[0]
	r.Position.X, r.Position.Y = vals[1], vals[2]
	r.Velocity.X, r.Velocity.Y = vals[3], vals[4]
	r.Acceleration.X, r.Acceleration.Y = vals[5], vals[6]
	r.Mass, r.Radius = vals[7], vals[8]
	return r, nil
}

type ExportData struct {
	Run   RunMetadata `json:"run"`
	Steps int         `json:"steps"`
	Trace Trace       `json:"trace"`
}

// ExportJSON writes a stored run, metadata and trace, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:   *meta,
		Steps: trace.Samples(),
		Trace: trace,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func slug(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}
