package models

import "errors"

// Sentinel errors returned by the draw engine. Callers match them with errors.Is;
// every engine function wraps them with the offending value.
var (
	ErrInvalidDigits = errors.New("draw must contain exactly 3 digits in [0,9]")
	ErrInvalidWindow = errors.New("window size must be a positive integer")
	ErrInvalidCount  = errors.New("count out of range")
	ErrInvalidRange  = errors.New("range minimum must not exceed maximum")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrEmptyHistory  = errors.New("history is empty")
)
