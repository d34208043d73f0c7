package models

import "fmt"

// History is an ordered draw sequence, most recent first. It is built once and
// never mutated in place; every filter or window returns a new slice.
type History []Draw

// Window returns the first n draws, or the whole history when it is shorter.
// The result is capacity-clipped so appending to it cannot overwrite h.
func (h History) Window(n int) History {
	if n > len(h) {
		n = len(h)
	}
	if n < 0 {
		n = 0
	}
	return h[:n:n]
}

// Latest returns the most recent draw.
func (h History) Latest() (Draw, bool) {
	if len(h) == 0 {
		return Draw{}, false
	}
	return h[0], true
}

// Validate checks every draw plus ordering: periods must be unique and strictly
// decreasing, and dates must never increase, as the index grows. When strictDates
// is set, dates must strictly decrease too.
func (h History) Validate(strictDates bool) error {
	seen := make(map[string]int, len(h))
	for i := range h {
		d := &h[i]
		if err := d.Validate(); err != nil {
			return fmt.Errorf("draw %d (period %s): %w", i, d.Period, err)
		}
		if j, dup := seen[d.Period]; dup {
			return fmt.Errorf("%w: period %s repeated at %d and %d", ErrInvalidPeriod, d.Period, j, i)
		}
		seen[d.Period] = i

		if i == 0 {
			continue
		}
		prev := &h[i-1]
		if d.Period >= prev.Period {
			return fmt.Errorf("%w: period %s at %d must precede %s", ErrInvalidPeriod, d.Period, i, prev.Period)
		}
		if d.Date > prev.Date || (strictDates && d.Date == prev.Date) {
			return fmt.Errorf("date %s at %d is out of order after %s", d.Date, i, prev.Date)
		}
	}
	return nil
}
