package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/rewired-gh/draworacle/internal/models"
)

// Summary describes the sums, spans and categories of a history window.
type Summary struct {
	Draws      int                     `json:"draws"`
	SumMean    float64                 `json:"sum_mean"`
	SumStdDev  float64                 `json:"sum_std_dev"`
	SpanMean   float64                 `json:"span_mean"`
	SpanStdDev float64                 `json:"span_std_dev"`
	Categories map[models.Category]int `json:"categories"`
}

// Summarize computes the window summary over the first window draws of h.
// Standard deviations are sample deviations and stay 0 below two draws.
func Summarize(h models.History, window int) (Summary, error) {
	if window <= 0 {
		return Summary{}, fmt.Errorf("%w: got %d", models.ErrInvalidWindow, window)
	}

	draws := h.Window(window)
	summary := Summary{
		Draws:      len(draws),
		Categories: make(map[models.Category]int, len(models.Categories)),
	}
	for _, c := range models.Categories {
		summary.Categories[c] = 0
	}
	if len(draws) == 0 {
		return summary, nil
	}

	sums := make([]float64, len(draws))
	spans := make([]float64, len(draws))
	for i, d := range draws {
		sums[i] = float64(d.Sum)
		spans[i] = float64(d.Span)
		summary.Categories[d.Category]++
	}

	summary.SumMean = stat.Mean(sums, nil)
	summary.SpanMean = stat.Mean(spans, nil)
	if len(draws) > 1 {
		summary.SumStdDev = stat.StdDev(sums, nil)
		summary.SpanStdDev = stat.StdDev(spans, nil)
	}
	return summary, nil
}
