package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	playbackInterval = 50 * time.Millisecond
	pageSize         = 50
)

type tickMsg time.Time

// Playback scrubs through a finished trajectory one sample at a time.
type Playback struct {
	title   string
	traj    *dynamo.Trajectory
	pos     []float64
	index   int
	playing bool
	width   int
}

func NewPlayback(title string, traj *dynamo.Trajectory) Playback {
	pos := make([]float64, 0, traj.Len())
	traj.Each(func(_ int, s dynamo.Sample) {
		pos = append(pos, s.Position.Norm())
	})
	return Playback{title: title, traj: traj, pos: pos, width: 60}
}

func (m Playback) Index() int    { return m.index }
func (m Playback) Playing() bool { return m.playing }

func (m Playback) Init() tea.Cmd { return nil }

func tick() tea.Cmd {
	return tea.Tick(playbackInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Playback) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := m.traj.Len() - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.index = min(m.index+1, last)
		case "left", "h":
			m.index = max(m.index-1, 0)
		case "pgdown":
			m.index = min(m.index+pageSize, last)
		case "pgup":
			m.index = max(m.index-pageSize, 0)
		case "home", "g":
			m.index = 0
		case "end", "G":
			m.index = max(last, 0)
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, tick()
			}
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 10)
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.index >= last {
			m.playing = false
			return m, nil
		}
		m.index++
		return m, tick()
	}
	return m, nil
}

func (m Playback) View() string {
	var sb strings.Builder
	sb.WriteString(Title.Render(m.title))
	sb.WriteString("\n\n")

	if m.traj.Len() == 0 {
		sb.WriteString(Subtle.Render("empty trajectory"))
		sb.WriteString("\n")
		return sb.String()
	}

	s := m.traj.At(m.index)
	lines := []string{
		fmt.Sprintf("step %d/%d", m.index, m.traj.Len()-1),
		Metric("t", s.Time),
		MetricLabel.Render("x:") + " " + MetricValue.Render(formatVector(s.Position)),
		MetricLabel.Render("v:") + " " + MetricValue.Render(formatVector(s.Velocity)),
		Metric("|x|", s.Position.Norm()),
		Metric("|v|", s.Velocity.Norm()),
	}
	sb.WriteString(Panel.Render(strings.Join(lines, "\n")))
	sb.WriteString("\n\n")

	sb.WriteString(SparklineChart(m.pos, m.width))
	sb.WriteString("\n")
	sb.WriteString(progressMarker(m.index, m.traj.Len(), m.width))
	sb.WriteString("\n\n")

	state := "paused"
	if m.playing {
		state = "playing"
	}
	sb.WriteString(KeyHint.Render(fmt.Sprintf("%s  ←/→ step  pgup/pgdn jump  home/end  space play  q quit", state)))
	sb.WriteString("\n")
	return sb.String()
}

func progressMarker(index, n, width int) string {
	if n <= 1 || width <= 0 {
		return ""
	}
	col := index * (width - 1) / (n - 1)
	return strings.Repeat(" ", col) + "^"
}

func formatVector(v dynamo.Vector) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = fmt.Sprintf("%.6g", c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RunPlayback starts the scrubber in the alternate screen.
func RunPlayback(title string, traj *dynamo.Trajectory) error {
	p := tea.NewProgram(NewPlayback(title, traj), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
