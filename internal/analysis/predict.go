package analysis

import (
	"fmt"
	"sort"

	"github.com/rewired-gh/draworacle/internal/models"
	"github.com/rewired-gh/draworacle/internal/rng"
)

// DefaultNoiseMax is the upper bound of the per-digit weighting noise.
const DefaultNoiseMax = 5.0

// Predictor draws weighted-random digit picks from a randomness source.
type Predictor struct {
	src      rng.Source
	noiseMax float64
}

// NewPredictor creates a Predictor. A non-positive noiseMax falls back to
// DefaultNoiseMax.
func NewPredictor(src rng.Source, noiseMax float64) *Predictor {
	if noiseMax <= 0 {
		noiseMax = DefaultNoiseMax
	}
	return &Predictor{src: src, noiseMax: noiseMax}
}

type weightedDigit struct {
	digit  int
	weight float64
}

// Predict picks count distinct digits, weighting each by its frequency over the
// first window draws of h plus noise drawn uniformly from [0, noiseMax).
// The result is in ascending digit order, not weight order.
func (p *Predictor) Predict(h models.History, window, count int) ([]int, error) {
	if count < 1 || count > 10 {
		return nil, fmt.Errorf("%w: prediction size %d must be between 1 and 10", models.ErrInvalidCount, count)
	}
	table, err := FrequencyOver(h, window)
	if err != nil {
		return nil, err
	}

	weights := make([]weightedDigit, len(table))
	for d, n := range table {
		weights[d] = weightedDigit{digit: d, weight: float64(n) + p.src.Float64()*p.noiseMax}
	}

	sort.Slice(weights, func(i, j int) bool {
		if weights[i].weight != weights[j].weight {
			return weights[i].weight > weights[j].weight
		}
		return weights[i].digit < weights[j].digit
	})

	picked := make([]int, count)
	for i := range picked {
		picked[i] = weights[i].digit
	}
	sort.Ints(picked)
	return picked, nil
}

// Confidence returns a uniform integer in [min, max]. It is display decoration
// only and has no relation to the weights used by Predict.
func (p *Predictor) Confidence(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%d, %d]", models.ErrInvalidRange, min, max)
	}
	return min + p.src.Intn(max-min+1), nil
}
