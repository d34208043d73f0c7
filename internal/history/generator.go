// Package history builds and queries ordered draw histories.
//
// A history either comes from Generate, which synthesizes uniform random draws as a
// stand-in for real results, or from Decode/LoadFile, which ingest the JSON document
// produced by the draw-result scraper. Both paths yield a models.History that has
// passed validation, most recent draw first.
package history

import (
	"fmt"
	"time"

	"github.com/rewired-gh/draworacle/internal/models"
	"github.com/rewired-gh/draworacle/internal/rng"
)

// maxSequence is the largest in-year sequence number that fits the 3-digit period suffix.
const maxSequence = 999

// FormatPeriod builds a period identifier from a year and an in-year sequence number.
func FormatPeriod(year, seq int) string {
	return fmt.Sprintf("%04d%03d", year, seq)
}

// Generate synthesizes count draws, one per calendar day counting back from anchor.
// Draw i gets date anchor-i days and period <anchor year><startPeriod-i>, and its
// digits are drawn independently and uniformly from [0,9].
func Generate(count int, anchor time.Time, startPeriod int, src rng.Source) (models.History, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: history size %d must be positive", models.ErrInvalidCount, count)
	}
	if startPeriod > maxSequence || startPeriod-count+1 < 0 {
		return nil, fmt.Errorf("%w: start %d cannot count down %d periods within [0,%d]",
			models.ErrInvalidPeriod, startPeriod, count, maxSequence)
	}

	year := anchor.Year()
	h := make(models.History, 0, count)
	for i := 0; i < count; i++ {
		var digits models.Digits
		for j := range digits {
			digits[j] = src.Intn(10)
		}

		date := anchor.AddDate(0, 0, -i).Format(models.DateLayout)
		draw, err := models.NewDraw(FormatPeriod(year, startPeriod-i), date, digits)
		if err != nil {
			return nil, fmt.Errorf("failed to build draw %d: %w", i, err)
		}
		h = append(h, draw)
	}

	return h, nil
}
