// Package engine runs the trials of a visual-search task: it samples each
// grid, holds it behind an image preload and fixation gate, records one
// selection per trial, and hands the trial log to the host on completion.
package engine
