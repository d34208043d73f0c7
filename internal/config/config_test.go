package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
history:
  source: generate
  count: 60
  start_period: 120
  anchor_date: "2024-04-09"
  seed: 42

analysis:
  hot_cold_window: 20
  hot_cold_k: 4
  chart_window: 40
  predict_window: 25
  noise_max: 2.5
  predictions:
    - name: direct
      count: 3
      confidence_min: 60
      confidence_max: 80

query:
  page_size: 15

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true

logging:
  level: "debug"
  format: "text"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.History.Count != 60 || cfg.History.StartPeriod != 120 || cfg.History.Seed != 42 {
		t.Errorf("Unexpected history config: %+v", cfg.History)
	}
	if cfg.Analysis.NoiseMax != 2.5 {
		t.Errorf("Unexpected noise_max: %f", cfg.Analysis.NoiseMax)
	}
	if len(cfg.Analysis.Predictions) != 1 || cfg.Analysis.Predictions[0].Name != "direct" {
		t.Errorf("Unexpected predictions: %+v", cfg.Analysis.Predictions)
	}
	if cfg.Analysis.SummaryWindow != 50 {
		t.Errorf("Expected default summary_window 50, got %d", cfg.Analysis.SummaryWindow)
	}
	if cfg.Telegram.Schedule != "30 21 * * *" {
		t.Errorf("Expected default schedule, got %q", cfg.Telegram.Schedule)
	}
	if cfg.Telegram.RetryDelayBase != time.Second {
		t.Errorf("Expected default retry delay 1s, got %v", cfg.Telegram.RetryDelayBase)
	}

	anchor, err := cfg.History.Anchor(time.Now())
	if err != nil {
		t.Fatalf("Anchor failed: %v", err)
	}
	if anchor.Format("2006-01-02") != "2024-04-09" {
		t.Errorf("Unexpected anchor: %v", anchor)
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if cfg.History.Source != "generate" || cfg.History.Count != 100 || cfg.History.StartPeriod != 100 {
		t.Errorf("Unexpected history defaults: %+v", cfg.History)
	}
	if cfg.Analysis.HotColdWindow != 30 || cfg.Analysis.HotColdK != 3 || cfg.Analysis.ChartWindow != 50 {
		t.Errorf("Unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if len(cfg.Analysis.Predictions) != 2 {
		t.Fatalf("Expected 2 default predictions, got %d", len(cfg.Analysis.Predictions))
	}
	if p := cfg.Analysis.Predictions[1]; p.Count != 5 || p.ConfidenceMin != 75 || p.ConfidenceMax != 90 {
		t.Errorf("Unexpected 5-digit prediction default: %+v", p)
	}
	if cfg.Query.PageSize != 10 {
		t.Errorf("Unexpected page size: %d", cfg.Query.PageSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func validConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Source:      "generate",
			Count:       100,
			StartPeriod: 100,
		},
		Analysis: AnalysisConfig{
			HotColdWindow: 30,
			HotColdK:      3,
			ChartWindow:   50,
			PredictWindow: 30,
			SummaryWindow: 50,
			NoiseMax:      5,
			Predictions:   DefaultPredictions,
		},
		Query:  QueryConfig{PageSize: 10},
		Server: ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown source", func(c *Config) { c.History.Source = "http" }, true},
		{"file source without path", func(c *Config) { c.History.Source = "file" }, true},
		{"file source with path", func(c *Config) {
			c.History.Source = "file"
			c.History.FilePath = "data.json"
		}, false},
		{"start period too small", func(c *Config) { c.History.StartPeriod = 50 }, true},
		{"start period too large", func(c *Config) { c.History.StartPeriod = 1000 }, true},
		{"bad anchor date", func(c *Config) { c.History.AnchorDate = "09/04/2024" }, true},
		{"zero window", func(c *Config) { c.Analysis.PredictWindow = 0 }, true},
		{"k too large", func(c *Config) { c.Analysis.HotColdK = 11 }, true},
		{"zero noise", func(c *Config) { c.Analysis.NoiseMax = 0 }, true},
		{"prediction count too large", func(c *Config) {
			c.Analysis.Predictions = []PredictionConfig{{Name: "all", Count: 11, ConfidenceMin: 1, ConfidenceMax: 2}}
		}, true},
		{"inverted confidence", func(c *Config) {
			c.Analysis.Predictions = []PredictionConfig{{Name: "3d", Count: 3, ConfidenceMin: 90, ConfidenceMax: 65}}
		}, true},
		{"duplicate prediction name", func(c *Config) {
			c.Analysis.Predictions = []PredictionConfig{DefaultPredictions[0], DefaultPredictions[0]}
		}, true},
		{"zero page size", func(c *Config) { c.Query.PageSize = 0 }, true},
		{"missing telegram token when enabled", func(c *Config) {
			c.Telegram = TelegramConfig{Enabled: true, ChatID: "1", Schedule: "@daily"}
		}, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
