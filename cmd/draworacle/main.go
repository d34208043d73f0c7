package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/api"
	"github.com/rewired-gh/draworacle/internal/config"
	"github.com/rewired-gh/draworacle/internal/dashboard"
	"github.com/rewired-gh/draworacle/internal/history"
	"github.com/rewired-gh/draworacle/internal/logger"
	"github.com/rewired-gh/draworacle/internal/models"
	"github.com/rewired-gh/draworacle/internal/rng"
	"github.com/rewired-gh/draworacle/internal/telegram"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (defaults and environment only when empty)")
	mode       = flag.String("mode", "print", "One of: print, serve, digest, export")
	query      = flag.String("query", "", "Period substring to search for (print mode)")
	limit      = flag.Int("limit", 0, "Number of draws to list (print mode, defaults to query.page_size)")
	outDir     = flag.String("out", "./data", "Directory for exported feed files (export mode)")
	once       = flag.Bool("once", false, "Send a single digest and exit (digest mode)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if *configPath != "" {
		logger.Info("Configuration loaded from %s", *configPath)
	}

	// A locked source keeps one generator usable from the server and scheduler goroutines.
	src := rng.NewLocked(rng.New(cfg.History.Seed))
	predictor := analysis.NewPredictor(src, cfg.Analysis.NoiseMax)

	h, err := loadHistory(cfg.History, src, time.Now())
	if err != nil {
		logger.Fatal("Failed to load history: %v", err)
	}
	logger.Info("Loaded %d draws from %s source", len(h), cfg.History.Source)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	switch *mode {
	case "print":
		err = runPrint(os.Stdout, h, cfg, predictor)
	case "serve":
		err = runServe(ctx, h, cfg, predictor)
	case "digest":
		err = runDigest(ctx, cfg, src, predictor)
	case "export":
		err = history.Export(*outDir, h, time.Now())
		if err == nil {
			logger.Info("Exported %d draws to %s", len(h), *outDir)
		}
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Fatal("%s failed: %v", *mode, err)
	}
}

// loadHistory builds the history from the configured source.
func loadHistory(hc config.HistoryConfig, src rng.Source, now time.Time) (models.History, error) {
	switch hc.Source {
	case "file":
		return history.LoadFile(hc.FilePath)
	default:
		anchor, err := hc.Anchor(now)
		if err != nil {
			return nil, err
		}
		return history.Generate(hc.Count, anchor, hc.StartPeriod, src)
	}
}

func runPrint(w io.Writer, h models.History, cfg *config.Config, predictor *analysis.Predictor) error {
	d, err := dashboard.Build(h, cfg.Analysis, predictor, time.Now())
	if err != nil {
		return err
	}

	n := *limit
	if n == 0 {
		n = cfg.Query.PageSize
	}
	filtered := history.FilterByPeriod(h, *query)
	page, err := history.Page(filtered, n)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if d.Latest != nil {
		fmt.Fprintf(tw, "Latest\t%s\t%s\t%s\tsum %d\tspan %d\t%s\n",
			d.Latest.Period, d.Latest.Date, joinDigits(d.Latest.Digits.Slice()), d.Latest.Sum, d.Latest.Span, d.Latest.Category.Label())
	}
	fmt.Fprintf(tw, "Hot (last %d)\t%s\n", d.HotColdWindow, joinCounts(d.Hot))
	fmt.Fprintf(tw, "Cold (last %d)\t%s\n", d.HotColdWindow, joinCounts(d.Cold))
	for _, p := range d.Predictions {
		fmt.Fprintf(tw, "Prediction %s\t%s\tconfidence %d%%\n", p.Name, joinDigits(p.Digits), p.Confidence)
	}
	fmt.Fprintf(tw, "Sum mean (last %d)\t%.2f ± %.2f\n", d.Summary.Draws, d.Summary.SumMean, d.Summary.SumStdDev)
	fmt.Fprintf(tw, "Span mean (last %d)\t%.2f ± %.2f\n", d.Summary.Draws, d.Summary.SpanMean, d.Summary.SpanStdDev)
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Digit frequency (last %d)\n", d.ChartWindow)
	for _, bar := range d.Chart {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", bar.Digit, bar.Count, strings.Repeat("█", int(bar.Height/5)))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Period\tDate\tNumbers\tSum\tSpan\tType\n")
	for _, dr := range page {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			dr.Period, dr.Date, joinDigits(dr.Digits.Slice()), dr.Sum, dr.Span, dr.Category.Label())
	}
	fmt.Fprintf(tw, "Showing %d of %d draws\n", len(page), len(filtered))

	return tw.Flush()
}

func runServe(ctx context.Context, h models.History, cfg *config.Config, predictor *analysis.Predictor) error {
	srv := api.New(api.Options{
		History:   h,
		Analysis:  cfg.Analysis,
		Server:    cfg.Server,
		PageSize:  cfg.Query.PageSize,
		Predictor: predictor,
		Log:       logger.Get(),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// runDigest sends a Telegram digest on the configured cron schedule. The history is
// reloaded for every run so a refreshed feed file is picked up.
func runDigest(ctx context.Context, cfg *config.Config, src rng.Source, predictor *analysis.Predictor) error {
	if !cfg.Telegram.Enabled {
		return errors.New("telegram.enabled must be true for digest mode")
	}

	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		return err
	}
	logger.Info("Telegram client initialized successfully")

	consecutiveFailures := 0
	sendDigest := func() {
		err := func() error {
			h, err := loadHistory(cfg.History, src, time.Now())
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			d, err := dashboard.Build(h, cfg.Analysis, predictor, time.Now())
			if err != nil {
				return fmt.Errorf("failed to build dashboard: %w", err)
			}
			return client.Send(d)
		}()

		if err != nil {
			consecutiveFailures++
			logger.Error("Digest run failed: %v", err)
			if consecutiveFailures == 1 {
				if sendErr := client.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
			return
		}

		if consecutiveFailures > 0 {
			if sendErr := client.SendRecovery(consecutiveFailures); sendErr != nil {
				logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
			}
		}
		consecutiveFailures = 0
		logger.Info("Sent Telegram digest")
	}

	if *once {
		sendDigest()
		if consecutiveFailures > 0 {
			return errors.New("digest was not delivered")
		}
		return nil
	}

	// Jobs never overlap; a slow send delays rather than races the next run.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Telegram.Schedule, sendDigest); err != nil {
		return fmt.Errorf("invalid telegram.schedule %q: %w", cfg.Telegram.Schedule, err)
	}
	c.Start()
	logger.Info("Digest scheduled (%s)", cfg.Telegram.Schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Service stopped")
	return nil
}

func joinDigits(digits []int) string {
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func joinCounts(counts []analysis.DigitCount) string {
	parts := make([]string, len(counts))
	for i, dc := range counts {
		parts[i] = fmt.Sprintf("%d(%d)", dc.Digit, dc.Count)
	}
	return strings.Join(parts, " ")
}
