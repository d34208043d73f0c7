package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	History  HistoryConfig  `mapstructure:"history"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Query    QueryConfig    `mapstructure:"query"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HistoryConfig selects where the draw history comes from
type HistoryConfig struct {
	Source      string `mapstructure:"source"` // "generate" or "file"
	FilePath    string `mapstructure:"file_path"`
	Count       int    `mapstructure:"count"`
	StartPeriod int    `mapstructure:"start_period"`
	AnchorDate  string `mapstructure:"anchor_date"` // YYYY-MM-DD, empty means today
	Seed        int64  `mapstructure:"seed"`        // 0 seeds from the clock
}

// PredictionConfig describes one prediction shown on the dashboard
type PredictionConfig struct {
	Name          string `mapstructure:"name"`
	Count         int    `mapstructure:"count"`
	ConfidenceMin int    `mapstructure:"confidence_min"`
	ConfidenceMax int    `mapstructure:"confidence_max"`
}

// AnalysisConfig holds window sizes and tuning constants for the engine
type AnalysisConfig struct {
	HotColdWindow int                `mapstructure:"hot_cold_window"`
	HotColdK      int                `mapstructure:"hot_cold_k"`
	ChartWindow   int                `mapstructure:"chart_window"`
	PredictWindow int                `mapstructure:"predict_window"`
	SummaryWindow int                `mapstructure:"summary_window"`
	NoiseMax      float64            `mapstructure:"noise_max"`
	Predictions   []PredictionConfig `mapstructure:"predictions"`
}

// QueryConfig holds history listing configuration
type QueryConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	Schedule       string        `mapstructure:"schedule"` // cron spec for the digest
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultPredictions are the two dashboard picks:
// a 3-digit direct pick and a 5-digit group pick.
var DefaultPredictions = []PredictionConfig{
	{Name: "3d", Count: 3, ConfidenceMin: 65, ConfidenceMax: 85},
	{Name: "5code", Count: 5, ConfidenceMin: 75, ConfidenceMax: 90},
}

// Load reads configuration from file and environment variables.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("DRAWORACLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Analysis.Predictions) == 0 {
		cfg.Analysis.Predictions = append([]PredictionConfig(nil), DefaultPredictions...)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// History defaults
	v.SetDefault("history.source", "generate")
	v.SetDefault("history.file_path", "./data/lottery_data.json")
	v.SetDefault("history.count", 100)
	v.SetDefault("history.start_period", 100)
	v.SetDefault("history.anchor_date", "")
	v.SetDefault("history.seed", 0)

	// Analysis defaults
	v.SetDefault("analysis.hot_cold_window", 30)
	v.SetDefault("analysis.hot_cold_k", 3)
	v.SetDefault("analysis.chart_window", 50)
	v.SetDefault("analysis.predict_window", 30)
	v.SetDefault("analysis.summary_window", 50)
	v.SetDefault("analysis.noise_max", 5.0)

	// Query defaults
	v.SetDefault("query.page_size", 10)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.schedule", "30 21 * * *")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Anchor returns the configured anchor date, or the current day when unset.
func (h HistoryConfig) Anchor(now time.Time) (time.Time, error) {
	if h.AnchorDate == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01-02", h.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("history.anchor_date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate History config
	switch c.History.Source {
	case "generate":
		if c.History.Count < 1 {
			return fmt.Errorf("history.count must be at least 1")
		}
		if c.History.StartPeriod < c.History.Count-1 || c.History.StartPeriod > 999 {
			return fmt.Errorf("history.start_period must be between history.count-1 and 999")
		}
		if _, err := c.History.Anchor(time.Now()); err != nil {
			return err
		}
	case "file":
		if c.History.FilePath == "" {
			return fmt.Errorf("history.file_path is required when history.source is file")
		}
	default:
		return fmt.Errorf("history.source must be one of: generate, file")
	}

	// Validate Analysis config
	a := c.Analysis
	if a.HotColdWindow < 1 || a.ChartWindow < 1 || a.PredictWindow < 1 || a.SummaryWindow < 1 {
		return fmt.Errorf("analysis windows must be at least 1")
	}
	if a.HotColdK < 1 || a.HotColdK > 10 {
		return fmt.Errorf("analysis.hot_cold_k must be between 1 and 10")
	}
	if a.NoiseMax <= 0 {
		return fmt.Errorf("analysis.noise_max must be positive")
	}
	names := make(map[string]bool)
	for i, p := range a.Predictions {
		if p.Name == "" {
			return fmt.Errorf("analysis.predictions[%d].name is required", i)
		}
		if names[p.Name] {
			return fmt.Errorf("analysis.predictions[%d].name %q is repeated", i, p.Name)
		}
		names[p.Name] = true
		if p.Count < 1 || p.Count > 10 {
			return fmt.Errorf("analysis.predictions[%d].count must be between 1 and 10", i)
		}
		if p.ConfidenceMin < 0 || p.ConfidenceMax > 100 || p.ConfidenceMin > p.ConfidenceMax {
			return fmt.Errorf("analysis.predictions[%d] confidence range must satisfy 0 <= min <= max <= 100", i)
		}
	}

	// Validate Query config
	if c.Query.PageSize < 1 {
		return fmt.Errorf("query.page_size must be at least 1")
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.Schedule == "" {
			return fmt.Errorf("telegram.schedule is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
