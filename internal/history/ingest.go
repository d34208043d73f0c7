package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rewired-gh/draworacle/internal/logger"
	"github.com/rewired-gh/draworacle/internal/models"
)

// UpdateTimeLayout is the timestamp format of the feed's updateTime field.
const UpdateTimeLayout = "2006-01-02 15:04:05"

// FeedRecord is one draw as it appears in the scraper's JSON feed.
type FeedRecord struct {
	Period  string `json:"period"`
	Numbers []int  `json:"numbers"`
	Date    string `json:"date"`
	Sum     int    `json:"sum"`
	Span    int    `json:"span"`
	Type    string `json:"type"` // category label, e.g. 组六
}

// Feed represents the file structure of lottery_data.json
type Feed struct {
	Success    bool         `json:"success"`
	UpdateTime string       `json:"updateTime"`
	Total      int          `json:"total"`
	Data       []FeedRecord `json:"data"`
}

// LatestFeed represents the file structure of latest.json
type LatestFeed struct {
	Success    bool       `json:"success"`
	UpdateTime string     `json:"updateTime"`
	Latest     FeedRecord `json:"latest"`
}

// Decode reads a feed document and converts it into a validated history.
// Derived fields are recomputed from the digits; values carried by the feed are
// only compared for diagnostics.
func Decode(r io.Reader) (models.History, error) {
	var feed Feed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	if !feed.Success || len(feed.Data) == 0 {
		return nil, fmt.Errorf("%w: feed success=%v with %d records", models.ErrEmptyHistory, feed.Success, len(feed.Data))
	}
	if feed.Total != 0 && feed.Total != len(feed.Data) {
		logger.Warn("Feed declares total=%d but carries %d records", feed.Total, len(feed.Data))
	}

	h := make(models.History, 0, len(feed.Data))
	stale := 0
	for i, rec := range feed.Data {
		digits, err := models.NewDigits(rec.Numbers)
		if err != nil {
			return nil, fmt.Errorf("record %d (period %s): %w", i, rec.Period, err)
		}
		draw, err := models.NewDraw(rec.Period, rec.Date, digits)
		if err != nil {
			return nil, fmt.Errorf("record %d (period %s): %w", i, rec.Period, err)
		}
		if rec.Sum != draw.Sum || rec.Span != draw.Span || (rec.Type != "" && rec.Type != draw.Category.Label()) {
			stale++
		}
		h = append(h, draw)
	}
	if stale > 0 {
		logger.Debug("Recomputed derived fields for %d of %d feed records", stale, len(h))
	}

	if err := h.Validate(false); err != nil {
		return nil, fmt.Errorf("invalid history: %w", err)
	}
	return h, nil
}

// LoadFile reads a feed document from disk.
func LoadFile(path string) (models.History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	h, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ToFeedRecord converts a draw to its feed form.
func ToFeedRecord(d models.Draw) FeedRecord {
	return FeedRecord{
		Period:  d.Period,
		Numbers: d.Digits.Slice(),
		Date:    d.Date,
		Sum:     d.Sum,
		Span:    d.Span,
		Type:    d.Category.Label(),
	}
}

// Encode writes h as a feed document stamped with updated.
func Encode(w io.Writer, h models.History, updated time.Time) error {
	feed := Feed{
		Success:    true,
		UpdateTime: updated.Format(UpdateTimeLayout),
		Total:      len(h),
		Data:       make([]FeedRecord, 0, len(h)),
	}
	for _, d := range h {
		feed.Data = append(feed.Data, ToFeedRecord(d))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(feed); err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}
	return nil
}

// EncodeLatest writes the most recent draw of h as a latest.json document.
func EncodeLatest(w io.Writer, h models.History, updated time.Time) error {
	latest, ok := h.Latest()
	if !ok {
		return models.ErrEmptyHistory
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(LatestFeed{
		Success:    true,
		UpdateTime: updated.Format(UpdateTimeLayout),
		Latest:     ToFeedRecord(latest),
	}); err != nil {
		return fmt.Errorf("failed to encode latest draw: %w", err)
	}
	return nil
}

// Export writes lottery_data.json and latest.json into dir.
func Export(dir string, h models.History, updated time.Time) error {
	if len(h) == 0 {
		return models.ErrEmptyHistory
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, "lottery_data.json"), func(w io.Writer) error {
		return Encode(w, h, updated)
	}); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, "latest.json"), func(w io.Writer) error {
		return EncodeLatest(w, h, updated)
	})
}

// writeAtomic writes to a temporary file first and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	tempPath := path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
