package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/recorder"
)

// Float encodes NaN and Inf as JSON null, which decodes back to NaN.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func floats(v []float64) []Float {
	out := make([]Float, len(v))
	for i, x := range v {
		out[i] = Float(x)
	}
	return out
}

type Magnitudes struct {
	Position []Float `json:"position"`
	Velocity []Float `json:"velocity"`
}

type ExportData struct {
	Run        RunMetadata `json:"run"`
	Times      []float64   `json:"times"`
	Positions  [][]Float   `json:"positions"`
	Velocities [][]Float   `json:"velocities"`
	Magnitudes Magnitudes  `json:"magnitudes"`
}

// ExportJSON writes the run and its full trajectory to w. Non-finite
// samples of a diverged run are written as null.
func ExportJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory) error {
	series := recorder.Record(traj)
	data := ExportData{
		Run:        meta,
		Times:      series.Times,
		Positions:  make([][]Float, traj.Len()),
		Velocities: make([][]Float, traj.Len()),
		Magnitudes: Magnitudes{
			Position: floats(series.Position),
			Velocity: floats(series.Velocity),
		},
	}
	traj.Each(func(i int, s dynamo.Sample) {
		data.Positions[i] = floats(s.Position)
		data.Velocities[i] = floats(s.Velocity)
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes the trajectory in the same layout as a stored run's
// trajectory.csv.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := writeTrajectoryCSV(cw, traj); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes one "t x v" line per sample. One-dimensional runs write
// the signed coordinates; higher dimensions write magnitudes.
func WriteText(w io.Writer, traj *dynamo.Trajectory) error {
	bw := bufio.NewWriter(w)
	series := recorder.Record(traj)

	var writeErr error
	traj.Each(func(i int, s dynamo.Sample) {
		if writeErr != nil {
			return
		}
		x, v := series.Position[i], series.Velocity[i]
		if len(s.Position) == 1 {
			x, v = s.Position[0], s.Velocity[0]
		}
		_, writeErr = fmt.Fprintf(bw, "%s %s %s\n", formatFloat(s.Time), formatFloat(x), formatFloat(v))
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

// LoadColumns reads a whitespace-separated numeric table such as an
// externally computed error dataset. Blank lines and lines starting with '#'
// are skipped; every row must have the same number of columns.
func LoadColumns(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadColumns(f)
}

func ReadColumns(r io.Reader) ([][]float64, error) {
	scanner := bufio.NewScanner(r)
	rows := make([][]float64, 0)
	width := -1
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("storage: line %d has %d columns, want %d", line, len(fields), width)
		}

		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Column extracts column i of rows.
func Column(rows [][]float64, i int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out
}
