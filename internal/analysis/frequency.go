// Package analysis provides windowed digit statistics and weighted-random prediction.
//
// Every function recomputes its result from the history window it is given; nothing
// is cached or updated incrementally. A window is the most-recent-first prefix of a
// history, clipped to the history's length.
//
// Predictions weight each digit by its recent frequency plus uniform noise:
//
//	weight(d) = count(d) + U[0, noiseMax)
//
// and pick the top-N digits by weight, returned in ascending order.
package analysis

import (
	"fmt"

	"github.com/rewired-gh/draworacle/internal/models"
)

// FrequencyTable maps each digit 0-9 (the index) to its occurrence count.
type FrequencyTable [10]int

// Total returns the sum of all counts.
func (t FrequencyTable) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Max returns the highest count.
func (t FrequencyTable) Max() int {
	highest := 0
	for _, n := range t {
		if n > highest {
			highest = n
		}
	}
	return highest
}

// FrequencyOver counts digit occurrences across the first window draws of h.
// A draw with a repeated digit counts it once per occurrence. An empty history
// yields an all-zero table.
func FrequencyOver(h models.History, window int) (FrequencyTable, error) {
	var table FrequencyTable
	if window <= 0 {
		return table, fmt.Errorf("%w: got %d", models.ErrInvalidWindow, window)
	}

	for _, draw := range h.Window(window) {
		for _, d := range draw.Digits {
			table[d]++
		}
	}
	return table, nil
}

// ChartHeights scales each count to a percentage of the table's highest count.
// A table of zeros maps to zeros.
func ChartHeights(t FrequencyTable) [10]float64 {
	var heights [10]float64
	highest := t.Max()
	if highest == 0 {
		return heights
	}
	for d, n := range t {
		heights[d] = float64(n) / float64(highest) * 100
	}
	return heights
}
