package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID              string             `json:"id"`
	Model           string             `json:"model"`
	Scheme          string             `json:"scheme"`
	Timestamp       time.Time          `json:"timestamp"`
	Dt              float64            `json:"dt"`
	TMax            float64            `json:"t_max"`
	Steps           int                `json:"steps"`
	Params          map[string]float64 `json:"params"`
	InitialPosition []float64          `json:"initial_position"`
	InitialVelocity []float64          `json:"initial_velocity"`
	Metrics         map[string]float64 `json:"metrics"`
	EnergyDrift     float64            `json:"energy_drift"`
}

// Save writes meta and the trajectory of result under a new run directory
// and returns the run ID. ID, Timestamp, Steps, Metrics and EnergyDrift are
// filled from result; non-finite metrics are dropped.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s_%s", meta.Model, result.Scheme, uuid.NewString()[:8])
	meta.Scheme = result.Scheme
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Metrics = make(map[string]float64, len(result.Metrics))
	for name, v := range result.Metrics {
		// JSON has no NaN or Inf
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		meta.Metrics[name] = v
	}
	meta.EnergyDrift = result.EnergyDrift

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeTrajectoryCSV(w, result.Trajectory); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
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

func writeTrajectoryCSV(w *csv.Writer, traj *dynamo.Trajectory) error {
	if traj == nil || traj.Len() == 0 {
		return nil
	}

	dim := len(traj.Position(0))
	header := []string{"time"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	var writeErr error
	traj.Each(func(_ int, s dynamo.Sample) {
		if writeErr != nil {
			return
		}
		row := []string{formatFloat(s.Time)}
		for _, val := range s.Position {
			row = append(row, formatFloat(val))
		}
		for _, val := range s.Velocity {
			row = append(row, formatFloat(val))
		}
		writeErr = w.Write(row)
	})
	return writeErr
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every stored run, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory rebuilds the stored trajectory of a run.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: run %s has no samples", runID)
	}

	header := records[0]
	if len(header) < 3 || (len(header)-1)%2 != 0 {
		return nil, fmt.Errorf("storage: malformed trajectory header %v", header)
	}
	dim := (len(header) - 1) / 2

	traj := dynamo.NewTrajectory(dynamo.TimeGrid{Dt: meta.Dt, N: len(records) - 1})
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("storage: row %d has %d fields, want %d", i+1, len(record), len(header))
		}
		vals := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		if err := traj.Append(dynamo.Vector(vals[:dim]), dynamo.Vector(vals[dim:])); err != nil {
			return nil, err
		}
	}

	return traj, nil
}
