package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/config"
	"github.com/rewired-gh/draworacle/internal/dashboard"
	"github.com/rewired-gh/draworacle/internal/history"
	"github.com/rewired-gh/draworacle/internal/models"
)

// DrawsResponse is one page of the (optionally filtered) history.
type DrawsResponse struct {
	Query    string        `json:"query,omitempty"`
	Total    int           `json:"total"`
	Shown    int           `json:"shown"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
	Draws    []models.Draw `json:"draws"`
}

// FrequencyResponse carries a frequency table and its chart heights.
type FrequencyResponse struct {
	Window  int                     `json:"window"`
	Counts  analysis.FrequencyTable `json:"counts"`
	Heights [10]float64             `json:"heights"`
}

// HotColdResponse carries the ranked digits of a window.
type HotColdResponse struct {
	Window int                   `json:"window"`
	K      int                   `json:"k"`
	Hot    []analysis.DigitCount `json:"hot"`
	Cold   []analysis.DigitCount `json:"cold"`
	Ranked []analysis.DigitCount `json:"ranked"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"draws":  len(s.history),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := dashboard.Build(s.history, s.analysis, s.predictor, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDraws(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, err := intParam(r, "limit", s.pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filtered := history.FilterByPeriod(s.history, query)
	page, err := history.Page(filtered, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, DrawsResponse{
		Query:    query,
		Total:    len(filtered),
		Shown:    len(page),
		PageSize: s.pageSize,
		HasMore:  len(page) < len(filtered),
		Draws:    page,
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.history.Latest()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: models.ErrEmptyHistory.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", s.analysis.ChartWindow)
	if err != nil {
		s.writeError(w, err)
		return
	}

	table, err := analysis.FrequencyOver(s.history, window)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, FrequencyResponse{
		Window:  window,
		Counts:  table,
		Heights: analysis.ChartHeights(table),
	})
}

func (s *Server) handleHotCold(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", s.analysis.HotColdWindow)
	if err != nil {
		s.writeError(w, err)
		return
	}
	k, err := intParam(r, "k", s.analysis.HotColdK)
	if err != nil {
		s.writeError(w, err)
		return
	}

	table, err := analysis.FrequencyOver(s.history, window)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, HotColdResponse{
		Window: window,
		K:      k,
		Hot:    analysis.Hot(table, k),
		Cold:   analysis.Cold(table, k),
		Ranked: analysis.Rank(table),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", s.analysis.PredictWindow)
	if err != nil {
		s.writeError(w, err)
		return
	}
	count, err := intParam(r, "count", 3)
	if err != nil {
		s.writeError(w, err)
		return
	}

	digits, err := s.predictor.Predict(s.history, window, count)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pc := s.confidenceRange(count)
	confidence, err := s.predictor.Confidence(pc.ConfidenceMin, pc.ConfidenceMax)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, models.Prediction{
		Name:       pc.Name,
		Digits:     digits,
		Confidence: confidence,
		Window:     window,
	})
}

// confidenceRange picks the configured prediction with the requested size, falling
// back to the first configured (or default) prediction's range.
func (s *Server) confidenceRange(count int) config.PredictionConfig {
	preds := s.analysis.Predictions
	if len(preds) == 0 {
		preds = config.DefaultPredictions
	}
	for _, p := range preds {
		if p.Count == count {
			return p
		}
	}
	fallback := preds[0]
	fallback.Name = fmt.Sprintf("%dcode", count)
	fallback.Count = count
	return fallback
}

var errBadParam = errors.New("invalid query parameter")

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadParam, name, raw)
	}
	return n, nil
}

// writeError maps engine validation errors to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadParam),
		errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, models.ErrInvalidCount),
		errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, models.ErrInvalidDigits):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrEmptyHistory):
		status = http.StatusNotFound
	default:
		s.log.Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode response")
	}
}
