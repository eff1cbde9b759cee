// Package viz renders trajectories in the terminal.
//
// Static output goes through asciigraph ([Plot], [PlotMany], [PlotSeries]) and
// lipgloss styles ([Table], [Metric]). [Playback] is a Bubble Tea model that
// steps through a recorded run:
//
//	←/→        one sample
//	pgup/pgdn  fifty samples
//	home/end   first/last sample
//	space      play/pause
//	q          quit
package viz
