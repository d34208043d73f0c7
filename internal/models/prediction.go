package models

import (
	"errors"
	"sort"
)

// Prediction is one weighted-random digit pick together with its display confidence.
// Confidence is cosmetic: it is drawn independently of the weights and carries no
// statistical meaning.
type Prediction struct {
	Name       string `json:"name"`
	Digits     []int  `json:"digits"`     // distinct, ascending
	Confidence int    `json:"confidence"` // percent, synthetic
	Window     int    `json:"window"`
}

// Validate checks that all prediction fields are valid
func (p *Prediction) Validate() error {
	if p.Name == "" {
		return errors.New("prediction name must not be empty")
	}
	if len(p.Digits) == 0 || len(p.Digits) > 10 {
		return errors.New("prediction must contain between 1 and 10 digits")
	}
	if !sort.IntsAreSorted(p.Digits) {
		return errors.New("prediction digits must be ascending")
	}
	for i, d := range p.Digits {
		if d < 0 || d > 9 {
			return errors.New("prediction digits must be in [0,9]")
		}
		if i > 0 && p.Digits[i-1] == d {
			return errors.New("prediction digits must be distinct")
		}
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return errors.New("confidence must be between 0 and 100")
	}
	if p.Window < 1 {
		return errors.New("window must be at least 1")
	}
	return nil
}
