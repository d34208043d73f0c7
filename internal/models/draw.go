// Package models defines the core domain entities for draworacle.
// These models represent three-digit lottery draws and the ordered history they form.
// All models include built-in validation so that ingested and generated data obey the
// same invariants.
//
// Terminology:
//   - Draw: one recorded outcome of 3 digits for a given period.
//   - Period: unique chronological identifier of a draw, e.g. "2024099".
//   - Category: triple (豹子), pair (对子), straight (顺子) or mixed (组六).
package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar date format carried by every draw.
const DateLayout = "2006-01-02"

// DigitCount is the number of digits in a draw.
const DigitCount = 3

// Category classifies a draw by the structure of its digit multiset.
type Category string

const (
	Triple   Category = "triple"   // all three digits identical
	Pair     Category = "pair"     // exactly two digits share a value
	Straight Category = "straight" // three distinct consecutive digits
	Mixed    Category = "mixed"    // three distinct non-consecutive digits
)

// Categories lists every category in classification priority order.
var Categories = []Category{Triple, Pair, Straight, Mixed}

var categoryLabels = map[Category]string{
	Triple:   "豹子",
	Pair:     "对子",
	Straight: "顺子",
	Mixed:    "组六",
}

// Label returns the display name used by draw-result feeds.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Digits holds the three drawn digits in draw order.
type Digits [DigitCount]int

// NewDigits converts a raw slice into Digits, rejecting anything other than
// exactly three values in [0,9].
func NewDigits(values []int) (Digits, error) {
	var d Digits
	if len(values) != DigitCount {
		return d, fmt.Errorf("%w: got %d values", ErrInvalidDigits, len(values))
	}
	copy(d[:], values)
	if err := d.Validate(); err != nil {
		return Digits{}, err
	}
	return d, nil
}

// Validate checks that every digit lies in [0,9].
func (d Digits) Validate() error {
	for i, v := range d {
		if v < 0 || v > 9 {
			return fmt.Errorf("%w: digit %d is %d", ErrInvalidDigits, i, v)
		}
	}
	return nil
}

// Slice returns the digits as a fresh slice.
func (d Digits) Slice() []int {
	out := make([]int, DigitCount)
	copy(out, d[:])
	return out
}

// Classify returns the category of d. Triple is checked before Pair, and Pair
// before Straight/Mixed.
func Classify(d Digits) (Category, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	seen := make(map[int]struct{}, DigitCount)
	for _, v := range d {
		seen[v] = struct{}{}
	}

	switch len(seen) {
	case 1:
		return Triple, nil
	case 2:
		return Pair, nil
	}

	sorted := d.Slice()
	sort.Ints(sorted)
	if sorted[1] == sorted[0]+1 && sorted[2] == sorted[1]+1 {
		return Straight, nil
	}
	return Mixed, nil
}

// Derived holds the fields computed from a draw's digits.
type Derived struct {
	Sum      int      `json:"sum"`
	Span     int      `json:"span"`
	Category Category `json:"category"`
}

// Derive computes sum, span and category for d.
func Derive(d Digits) (Derived, error) {
	category, err := Classify(d)
	if err != nil {
		return Derived{}, err
	}

	lo, hi := d[0], d[0]
	sum := 0
	for _, v := range d {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return Derived{Sum: sum, Span: hi - lo, Category: category}, nil
}

// Draw represents a single recorded draw. Sum, Span and Category are always
// derived from Digits; construct draws with NewDraw.
type Draw struct {
	Period   string   `json:"period"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Digits   Digits   `json:"numbers"`
	Sum      int      `json:"sum"`
	Span     int      `json:"span"`
	Category Category `json:"category"`
}

// NewDraw builds a draw and computes its derived fields.
func NewDraw(period, date string, digits Digits) (Draw, error) {
	derived, err := Derive(digits)
	if err != nil {
		return Draw{}, err
	}

	draw := Draw{
		Period:   period,
		Date:     date,
		Digits:   digits,
		Sum:      derived.Sum,
		Span:     derived.Span,
		Category: derived.Category,
	}
	if err := draw.Validate(); err != nil {
		return Draw{}, err
	}
	return draw, nil
}

// Time parses the draw date.
func (d *Draw) Time() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

// Validate checks that all draw fields are valid
func (d *Draw) Validate() error {
	if d.Period == "" {
		return fmt.Errorf("%w: period must not be empty", ErrInvalidPeriod)
	}
	if _, err := d.Time(); err != nil {
		return fmt.Errorf("date %q must be formatted as YYYY-MM-DD: %w", d.Date, err)
	}

	derived, err := Derive(d.Digits)
	if err != nil {
		return err
	}
	if d.Sum != derived.Sum {
		return errors.New("sum must equal the sum of the digits")
	}
	if d.Span != derived.Span {
		return errors.New("span must equal max digit minus min digit")
	}
	if d.Category != derived.Category {
		return errors.New("category does not match digits")
	}
	return nil
}
