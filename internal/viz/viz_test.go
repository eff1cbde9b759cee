package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/recorder"
)

func lineTrajectory(t *testing.T, n int) *dynamo.Trajectory {
	t.Helper()
	traj := dynamo.NewTrajectory(dynamo.TimeGrid{Dt: 0.1, N: n})
	for i := 0; i < n; i++ {
		if err := traj.Append(dynamo.Vector{float64(i)}, dynamo.Vector{1}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return traj
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Playback, k string) (Playback, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	p, ok := next.(Playback)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return p, cmd
}

func TestPlaybackNavigation(t *testing.T) {
	m := NewPlayback("test", lineTrajectory(t, 120))

	m, _ = press(t, m, "left")
	if m.Index() != 0 {
		t.Errorf("left at start: index %d, want 0", m.Index())
	}

	m, _ = press(t, m, "right")
	m, _ = press(t, m, "right")
	if m.Index() != 2 {
		t.Errorf("after two steps: index %d, want 2", m.Index())
	}

	m, _ = press(t, m, "pgdown")
	if m.Index() != 2+pageSize {
		t.Errorf("after pgdown: index %d, want %d", m.Index(), 2+pageSize)
	}

	m, _ = press(t, m, "end")
	if m.Index() != 119 {
		t.Errorf("end: index %d, want 119", m.Index())
	}

	m, _ = press(t, m, "right")
	if m.Index() != 119 {
		t.Errorf("right past end: index %d, want 119", m.Index())
	}

	m, _ = press(t, m, "home")
	if m.Index() != 0 {
		t.Errorf("home: index %d, want 0", m.Index())
	}
}

func TestPlaybackPlayStopsAtEnd(t *testing.T) {
	m := NewPlayback("test", lineTrajectory(t, 3))

	m, cmd := press(t, m, " ")
	if !m.Playing() || cmd == nil {
		t.Fatal("space should start playback and schedule a tick")
	}

	for i := 0; i < 5; i++ {
		next, _ := m.Update(tickMsg{})
		m = next.(Playback)
	}
	if m.Index() != 2 {
		t.Errorf("index %d, want 2", m.Index())
	}
	if m.Playing() {
		t.Error("playback should stop at the last sample")
	}
}

func TestPlaybackQuit(t *testing.T) {
	m := NewPlayback("test", lineTrajectory(t, 3))
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPlaybackView(t *testing.T) {
	m := NewPlayback("spring/verlet", lineTrajectory(t, 10))
	m, _ = press(t, m, "right")
	view := m.View()

	for _, want := range []string{"spring/verlet", "step 1/9", "(1)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlotSeries(t *testing.T) {
	s := recorder.Record(lineTrajectory(t, 20))
	pos, vel := PlotSeries(s)
	if !strings.Contains(pos, "|x| vs time") {
		t.Error("position plot missing caption")
	}
	if !strings.Contains(vel, "|v| vs time") {
		t.Error("velocity plot missing caption")
	}
	if Plot(nil, "empty") != "" {
		t.Error("empty series should render nothing")
	}
}

func TestTable(t *testing.T) {
	out := Table([]string{"scheme", "drift"}, [][]string{{"euler", "1.5"}, {"verlet", "0.01"}})
	for _, want := range []string{"scheme", "euler", "verlet", "0.01"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := SparklineChart([]float64{1, 2, 3}, 3); got == "" {
		t.Error("sparkline should not be empty")
	}
}
