package analysis

import (
	"strings"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/recorder"
)

// Axis selects one coordinate of a trajectory sample.
type Axis struct {
	Index    int
	Velocity bool
}

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two coordinates of a trajectory sample by sample.
type PhasePortrait2D struct {
	X, Y   Axis
	Points []Point
}

// GeneratePhasePortrait reads the portrait from a completed trajectory.
// It returns nil when either axis is outside the trajectory's dimension.
func GeneratePhasePortrait(traj *dynamo.Trajectory, x, y Axis) *PhasePortrait2D {
	if traj.Len() == 0 {
		return nil
	}
	dim := len(traj.Position(0))
	if x.Index < 0 || x.Index >= dim || y.Index < 0 || y.Index >= dim {
		return nil
	}

	xs := recorder.Component(traj, x.Index, x.Velocity)
	ys := recorder.Component(traj, y.Index, y.Velocity)

	portrait := &PhasePortrait2D{X: x, Y: y, Points: make([]Point, len(xs))}
	for i := range xs {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// PhasePortraitToASCII renders the portrait as a width x height character
// grid with 10% padding and the axes drawn where they are visible.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
