package errors

import "math"

// Year bounds accepted by the calendar builder. They match the proleptic
// Gregorian range most date libraries agree on.
const (
	MinYear = 1
	MaxYear = 9999
)

// ValidateYear rejects years outside [MinYear, MaxYear].
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d is out of range (%d..%d)", year, MinYear, MaxYear)
	}
	return nil
}

// ValidateProbability checks that p is a probability in [0, 1].
// NaN is rejected explicitly because it compares false against both bounds.
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", name, p)
	}
	return nil
}

// ValidateCanvas checks image dimensions and the margin ratio.
//
// Validation rules:
//   - Width and height must be positive
//   - Margin ratio must be within [0, 0.5), otherwise the drawable area is empty
func ValidateCanvas(width, height int, marginRatio float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", width, height)
	}
	if math.IsNaN(marginRatio) || marginRatio < 0 || marginRatio >= 0.5 {
		return New(ErrCodeInvalidCanvas, "margin ratio must be within [0, 0.5), got %v", marginRatio)
	}
	return nil
}
