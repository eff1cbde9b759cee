// Package analysis characterizes the error of the fixed-step schemes:
//
//   - [Divergence]: per-sample position distance between two runs
//   - [SpringExact] and [AbsoluteError]: error against the closed-form oscillator
//   - [PowerSpectrum] and [DominantFrequency]: oscillation period of a series
//   - [GeneratePhasePortrait]: two coordinates of a run plotted against each other
//
// # Scheme Comparison
//
// Euler and Verlet runs over the same grid are index-aligned, so their
// divergence is a plain element-wise distance:
//
//	d, err := analysis.Divergence(euler.Trajectory, verlet.Trajectory)
package analysis
