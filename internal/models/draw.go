// Package models defines the core domain entities for the lotoscope application.
// These models represent historical lottery draws and archived predictions.
// All models include built-in validation to ensure data integrity throughout the application.
//
// Terminology (matching Lotofácil's own naming):
//   - Draw (concurso): one drawing of 15 distinct numbers out of 1–25.
//   - Prediction: a generated 15-number ticket archived for later comparison.
package models

import (
	"fmt"
)

const (
	// DrawSize is the number of balls drawn per contest.
	DrawSize = 15
	// MaxNumber is the highest ball on the wheel.
	MaxNumber = 25
)

// Draw represents a single lottery draw: a contest identifier, a display date,
// and the 15 numbers in the order they were recorded.
//
// Contest may be negative for synthetic entries, e.g. archived predictions
// merged into the history for duplicate-aware analysis.
type Draw struct {
	Contest int    `json:"contest"`
	Date    string `json:"date"`
	Numbers []int  `json:"numbers"`
}

// Validate checks that the draw carries exactly 15 distinct numbers in [1,25].
// The date is an opaque display string and is not validated here.
func (d *Draw) Validate() error {
	if len(d.Numbers) != DrawSize {
		return fmt.Errorf("draw %d: expected %d numbers, got %d", d.Contest, DrawSize, len(d.Numbers))
	}
	seen := make(map[int]bool, DrawSize)
	for _, n := range d.Numbers {
		if n < 1 || n > MaxNumber {
			return fmt.Errorf("draw %d: number %d out of range [1,%d]", d.Contest, n, MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("draw %d: duplicate number %d", d.Contest, n)
		}
		seen[n] = true
	}
	return nil
}
