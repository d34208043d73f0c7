package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/config"
	"github.com/rewired-gh/draworacle/internal/dashboard"
	"github.com/rewired-gh/draworacle/internal/history"
	"github.com/rewired-gh/draworacle/internal/models"
	"github.com/rewired-gh/draworacle/internal/rng"
)

var fixedNow = time.Date(2024, time.April, 9, 22, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, h models.History) *Server {
	t.Helper()
	return New(Options{
		History: h,
		Analysis: config.AnalysisConfig{
			HotColdWindow: 30,
			HotColdK:      3,
			ChartWindow:   50,
			PredictWindow: 30,
			SummaryWindow: 50,
			NoiseMax:      5,
			Predictions:   config.DefaultPredictions,
		},
		Server:    config.ServerConfig{Addr: ":0"},
		PageSize:  10,
		Predictor: analysis.NewPredictor(rng.NewLocked(rng.New(3)), 5),
		Log:       zerolog.Nop(),
		Now:       func() time.Time { return fixedNow },
	})
}

func sampleHistory(t *testing.T) models.History {
	t.Helper()
	h, err := history.Generate(100, fixedNow, 100, rng.New(17))
	require.NoError(t, err)
	return h
}

func get(t *testing.T, s *Server, target string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))
	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, s, "/api/health", &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(100), body["draws"])
}

func TestDrawsPaging(t *testing.T) {
	h := sampleHistory(t)
	s := newTestServer(t, h)

	var page DrawsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/draws", &page))
	assert.Equal(t, 100, page.Total)
	assert.Equal(t, 10, page.Shown)
	assert.True(t, page.HasMore)
	assert.Equal(t, h[0].Period, page.Draws[0].Period)
	assert.Equal(t, h[9].Period, page.Draws[9].Period)

	var more DrawsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/draws?limit=20", &more))
	assert.Equal(t, 20, more.Shown)

	var all DrawsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/draws?limit=1000", &all))
	assert.Equal(t, 100, all.Shown)
	assert.False(t, all.HasMore)
}

func TestDrawsSearch(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var hits DrawsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/draws?q=2024099", &hits))
	require.Equal(t, 1, hits.Total)
	assert.Equal(t, "2024099", hits.Draws[0].Period)

	var none DrawsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/draws?q=zzz", &none))
	assert.Equal(t, 0, none.Total)
	assert.Empty(t, none.Draws)
}

func TestDrawsBadLimit(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var body errorResponse
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/draws?limit=0", &body))
	assert.Contains(t, body.Error, "count out of range")

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/draws?limit=ten", &body))
	assert.Contains(t, body.Error, "limit")
}

func TestLatest(t *testing.T) {
	h := sampleHistory(t)
	var d models.Draw
	assert.Equal(t, http.StatusOK, get(t, newTestServer(t, h), "/api/draws/latest", &d))
	assert.Equal(t, h[0], d)

	var body errorResponse
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(t, models.History{}), "/api/draws/latest", &body))
}

func TestFrequency(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var freq FrequencyResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/frequency", &freq))
	assert.Equal(t, 50, freq.Window)
	assert.Equal(t, 150, freq.Counts.Total())

	assert.Equal(t, http.StatusOK, get(t, s, "/api/frequency?window=7", &freq))
	assert.Equal(t, 21, freq.Counts.Total())

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/frequency?window=-1", nil))
}

func TestHotCold(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var hc HotColdResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/hotcold?k=4", &hc))
	assert.Equal(t, 30, hc.Window)
	assert.Len(t, hc.Hot, 4)
	assert.Len(t, hc.Cold, 4)
	assert.Len(t, hc.Ranked, 10)
	assert.Equal(t, hc.Ranked[:4], hc.Hot)
	assert.Equal(t, hc.Ranked[6:], hc.Cold)
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var p models.Prediction
	assert.Equal(t, http.StatusOK, get(t, s, "/api/predict?count=5", &p))
	assert.Equal(t, "5code", p.Name)
	assert.NoError(t, p.Validate())
	assert.Len(t, p.Digits, 5)
	assert.GreaterOrEqual(t, p.Confidence, 75)
	assert.LessOrEqual(t, p.Confidence, 90)

	assert.Equal(t, http.StatusOK, get(t, s, "/api/predict?count=4", &p))
	assert.Equal(t, "4code", p.Name)
	assert.Len(t, p.Digits, 4)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/predict?count=11", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/predict?window=0", nil))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, sampleHistory(t))

	var d dashboard.Dashboard
	assert.Equal(t, http.StatusOK, get(t, s, "/api/dashboard", &d))
	assert.Equal(t, fixedNow, d.GeneratedAt.UTC())
	assert.Len(t, d.Predictions, 2)
	assert.Len(t, d.Chart, 10)
	require.NotNil(t, d.Latest)
	assert.Equal(t, "2024100", d.Latest.Period)
}
