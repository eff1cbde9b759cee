package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/metrics"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/sim"
)

func runOrbit(t *testing.T) *sim.Result {
	t.Helper()
	cfg := dynamo.Config{
		Dt:       0.5,
		Duration: 5,
		Position: dynamo.Vector{3426000, 250, 250},
		Velocity: dynamo.Vector{-3426, 0, 0},
	}
	result, err := sim.New(physics.NewMarsOrbit(), integrators.NewVerlet(), nil).Run(cfg)
	require.NoError(t, err)
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	result := runOrbit(t)
	result.Metrics["energy_drift"] = 1.5

	runID, err := st.Save(RunMetadata{Model: "orbit", Dt: 0.5, TMax: 5}, result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "orbit_verlet_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "orbit", meta.Model)
	assert.Equal(t, "verlet", meta.Scheme)
	assert.Equal(t, 10, meta.Steps)
	assert.Equal(t, 1.5, meta.Metrics["energy_drift"])

	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Equal(t, result.Trajectory.Len(), traj.Len())
	for i := 0; i < traj.Len(); i++ {
		assert.True(t, traj.Position(i).Equal(result.Trajectory.Position(i)), "position %d", i)
		assert.True(t, traj.Velocity(i).Equal(result.Trajectory.Velocity(i)), "velocity %d", i)
	}
}

func TestStoreSave_DistinctIDs(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	result := runOrbit(t)

	a, err := st.Save(RunMetadata{Model: "orbit"}, result)
	require.NoError(t, err)
	b, err := st.Save(RunMetadata{Model: "orbit"}, result)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Model: "orbit"}, runOrbit(t))
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = New(filepath.Join(tmpDir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Model: "orbit"}, runOrbit(t))
	require.NoError(t, err)

	runDir := filepath.Join(tmpDir, runID)
	assert.FileExists(t, filepath.Join(runDir, "metadata.json"))
	assert.FileExists(t, filepath.Join(runDir, "trajectory.csv"))

	data, err := os.ReadFile(filepath.Join(runDir, "trajectory.csv"))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, "time,x0,x1,x2,v0,v1,v2", header)
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	result := runOrbit(t)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, RunMetadata{ID: "x", Model: "orbit"}, result.Trajectory))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "x", data.Run.ID)
	assert.Len(t, data.Times, 10)
	assert.Len(t, data.Positions[0], 3)
	assert.InDelta(t, result.Series.Position[3], float64(data.Magnitudes.Position[3]), 1e-6)
}

func TestWriteText(t *testing.T) {
	cfg := dynamo.Config{Dt: 0.1, Duration: 0.3, Position: dynamo.Vector{0}, Velocity: dynamo.Vector{1}}
	result, err := sim.New(physics.NewSpring(1, 1), integrators.NewEuler(), nil).Run(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, result.Trajectory))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0 0 1", lines[0])
	assert.Equal(t, "0.1 0.1 1", lines[1])
}

func TestReadColumns(t *testing.T) {
	input := "# altitude error rate\n100 0.5 -2\n\n  50\t0.25  -1.5\n"
	rows, err := ReadColumns(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []float64{100, 50}, Column(rows, 0))
	assert.Equal(t, []float64{-2, -1.5}, Column(rows, 2))
}

func TestReadColumns_Ragged(t *testing.T) {
	_, err := ReadColumns(strings.NewReader("1 2 3\n4 5\n"))
	assert.Error(t, err)

	_, err = ReadColumns(strings.NewReader("1 x\n"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	cfg := dynamo.Config{Dt: 0.1, Duration: 0.3, Position: dynamo.Vector{0}, Velocity: dynamo.Vector{1}}
	result, err := sim.New(physics.NewSpring(1, 1), integrators.NewEuler(), nil).Run(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result.Trajectory))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,x0,v0", lines[0])
	assert.Equal(t, "0,0,1", lines[1])
}

func TestStoreSave_NonFiniteRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	orbit := physics.NewMarsOrbit()
	s := sim.New(orbit, integrators.NewEuler(), nil)
	s.AddMetric(metrics.NewEnergy(orbit))
	s.AddMetric(metrics.NewStability(1))

	cfg := dynamo.Config{Dt: 0.5, Duration: 2, Position: dynamo.Vector{0, 0, 0}, Velocity: dynamo.Vector{0, 0, 0}}
	result, runErr := s.Run(cfg)
	require.ErrorIs(t, runErr, dynamo.ErrSingularPosition)

	runID, err := st.Save(RunMetadata{Model: "orbit", Dt: 0.5, TMax: 2}, result)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.NotContains(t, meta.Metrics, "energy")
	assert.Contains(t, meta.Metrics, "stability")

	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, 1, traj.FirstInvalid())
}

func TestExportJSON_NonFiniteRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := dynamo.Config{Dt: 0.5, Duration: 2, Position: dynamo.Vector{0, 0, 0}, Velocity: dynamo.Vector{10, 0, 0}}
	result, runErr := sim.New(physics.NewMarsOrbit(), integrators.NewEuler(), nil).Run(cfg)
	require.ErrorIs(t, runErr, dynamo.ErrSingularPosition)

	runID, err := st.Save(RunMetadata{Model: "orbit", Dt: 0.5, TMax: 2}, result)
	require.NoError(t, err)
	meta, err := st.Load(runID)
	require.NoError(t, err)
	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, *meta, traj))
	assert.Contains(t, buf.String(), "null")

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	require.Len(t, data.Positions, 4)
	assert.Equal(t, Float(0), data.Positions[0][0])
	assert.Equal(t, Float(5), data.Positions[1][0])
	assert.True(t, math.IsNaN(float64(data.Velocities[1][0])))
	assert.True(t, math.IsNaN(float64(data.Magnitudes.Velocity[1])))
}

func TestFloatJSON(t *testing.T) {
	out, err := json.Marshal([]Float{1.5, Float(math.Inf(1)), Float(math.NaN())})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,null]", string(out))
}
