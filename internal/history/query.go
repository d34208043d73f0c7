package history

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/draworacle/internal/models"
)

// FilterByPeriod returns the draws whose period contains query, in their original
// order. An empty query returns the full history.
func FilterByPeriod(h models.History, query string) models.History {
	if query == "" {
		return h[:len(h):len(h)]
	}

	filtered := models.History{}
	for _, d := range h {
		if strings.Contains(d.Period, query) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// Page returns the first count draws, or all of them when the history is shorter.
// The caller owns how many draws are currently shown and grows count by its page
// size to reveal more.
func Page(h models.History, count int) (models.History, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: page size %d must be positive", models.ErrInvalidCount, count)
	}
	return h.Window(count), nil
}
