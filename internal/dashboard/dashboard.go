// Package dashboard assembles the read-only view a presentation layer renders:
// the latest draw, hot and cold digits, the frequency chart, the configured
// predictions and a window summary. It holds no state between builds.
package dashboard

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/config"
	"github.com/rewired-gh/draworacle/internal/models"
)

// ChartBar is one digit column of the frequency chart.
type ChartBar struct {
	Digit  int     `json:"digit"`
	Count  int     `json:"count"`
	Height float64 `json:"height"` // percent of the tallest bar
}

// Dashboard is everything computed for one page view or digest.
type Dashboard struct {
	ID            string                `json:"id"`
	GeneratedAt   time.Time             `json:"generated_at"`
	Draws         int                   `json:"draws"`
	Latest        *models.Draw          `json:"latest,omitempty"`
	Hot           []analysis.DigitCount `json:"hot"`
	Cold          []analysis.DigitCount `json:"cold"`
	HotColdWindow int                   `json:"hot_cold_window"`
	Chart         []ChartBar            `json:"chart"`
	ChartWindow   int                   `json:"chart_window"`
	Predictions   []models.Prediction   `json:"predictions"`
	Summary       analysis.Summary      `json:"summary"`
}

// Build computes a dashboard over h with the windows and picks in cfg.
func Build(h models.History, cfg config.AnalysisConfig, p *analysis.Predictor, now time.Time) (*Dashboard, error) {
	d := &Dashboard{
		ID:            uuid.New().String(),
		GeneratedAt:   now,
		Draws:         len(h),
		HotColdWindow: cfg.HotColdWindow,
		ChartWindow:   cfg.ChartWindow,
	}
	if latest, ok := h.Latest(); ok {
		d.Latest = &latest
	}

	hotCold, err := analysis.FrequencyOver(h, cfg.HotColdWindow)
	if err != nil {
		return nil, fmt.Errorf("hot/cold frequency: %w", err)
	}
	d.Hot = analysis.Hot(hotCold, cfg.HotColdK)
	d.Cold = analysis.Cold(hotCold, cfg.HotColdK)

	chart, err := analysis.FrequencyOver(h, cfg.ChartWindow)
	if err != nil {
		return nil, fmt.Errorf("chart frequency: %w", err)
	}
	heights := analysis.ChartHeights(chart)
	d.Chart = make([]ChartBar, len(chart))
	for digit, n := range chart {
		d.Chart[digit] = ChartBar{Digit: digit, Count: n, Height: heights[digit]}
	}

	d.Predictions = make([]models.Prediction, 0, len(cfg.Predictions))
	for _, pc := range cfg.Predictions {
		digits, err := p.Predict(h, cfg.PredictWindow, pc.Count)
		if err != nil {
			return nil, fmt.Errorf("prediction %s: %w", pc.Name, err)
		}
		confidence, err := p.Confidence(pc.ConfidenceMin, pc.ConfidenceMax)
		if err != nil {
			return nil, fmt.Errorf("prediction %s confidence: %w", pc.Name, err)
		}
		pred := models.Prediction{
			Name:       pc.Name,
			Digits:     digits,
			Confidence: confidence,
			Window:     cfg.PredictWindow,
		}
		if err := pred.Validate(); err != nil {
			return nil, fmt.Errorf("prediction %s: %w", pc.Name, err)
		}
		d.Predictions = append(d.Predictions, pred)
	}

	d.Summary, err = analysis.Summarize(h, cfg.SummaryWindow)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	return d, nil
}
