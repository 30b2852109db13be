// Package viz renders pipe-flow results in the terminal.
//
//   - [Canvas]: Braille pixel canvas with a rune overlay for markers and labels
//   - [LogChart]: log-log chart for the Moody diagram and operating points
//   - [TimePlot]: asciigraph line plots for valve trajectories
//   - lipgloss panels for operating points and run metrics
package viz
