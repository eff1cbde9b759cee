package dynamo

// Sample is the recorded state at one grid index.
type Sample struct {
	Time     float64
	Position Vector
	Velocity Vector
}

// Trajectory is the append-only record of one run. It accepts exactly one
// sample per grid index and refuses further appends once complete.
type Trajectory struct {
	grid    TimeGrid
	samples []Sample
}

func NewTrajectory(grid TimeGrid) *Trajectory {
	return &Trajectory{
		grid:    grid,
		samples: make([]Sample, 0, grid.N),
	}
}

// Append records (x, v) at the next grid time. Both vectors are copied.
func (t *Trajectory) Append(x, v Vector) error {
	i := len(t.samples)
	if i >= t.grid.N {
		return &SimulationError{Step: i, Time: t.grid.At(i), Wrapped: ErrTrajectoryFull}
	}
	t.samples = append(t.samples, Sample{
		Time:     t.grid.At(i),
		Position: x.Clone(),
		Velocity: v.Clone(),
	})
	return nil
}

func (t *Trajectory) Grid() TimeGrid { return t.grid }
func (t *Trajectory) Len() int       { return len(t.samples) }
func (t *Trajectory) Complete() bool { return len(t.samples) == t.grid.N }

// At returns a copy of sample i.
func (t *Trajectory) At(i int) Sample {
	s := t.samples[i]
	return Sample{Time: s.Time, Position: s.Position.Clone(), Velocity: s.Velocity.Clone()}
}

func (t *Trajectory) Position(i int) Vector { return t.samples[i].Position.Clone() }
func (t *Trajectory) Velocity(i int) Vector { return t.samples[i].Velocity.Clone() }

func (t *Trajectory) Times() []float64 {
	times := make([]float64, len(t.samples))
	for i, s := range t.samples {
		times[i] = s.Time
	}
	return times
}

// Each calls fn for every sample in order. fn receives copies.
func (t *Trajectory) Each(fn func(i int, s Sample)) {
	for i := range t.samples {
		fn(i, t.At(i))
	}
}

// FirstInvalid returns the index of the first sample holding NaN or Inf, or
// -1 when every sample is finite.
func (t *Trajectory) FirstInvalid() int {
	for i, s := range t.samples {
		if !s.Position.IsValid() || !s.Velocity.IsValid() {
			return i
		}
	}
	return -1
}
