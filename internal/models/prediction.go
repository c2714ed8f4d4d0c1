package models

import (
	"errors"
	"time"
)

// Prediction represents an archived 15-number ticket, either generated locally
// or returned by the external text-generation service.
type Prediction struct {
	ID        string    `json:"id"`
	Numbers   []int     `json:"numbers"`
	Source    string    `json:"source"` // "gemini" or "random"
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that all prediction fields are valid.
func (p *Prediction) Validate() error {
	if p.ID == "" {
		return errors.New("prediction ID must not be empty")
	}
	if p.Source == "" {
		return errors.New("prediction source must not be empty")
	}
	if p.CreatedAt.IsZero() {
		return errors.New("prediction created at must be set")
	}
	// Numbers obey the same contract as a draw.
	d := Draw{Contest: 0, Numbers: p.Numbers}
	if err := d.Validate(); err != nil {
		return err
	}
	return nil
}

// AsDraw converts the prediction into a synthetic draw for history merging.
// Synthetic draws carry negative contest identifiers so they can never collide
// with real contests.
func (p *Prediction) AsDraw(syntheticContest int) Draw {
	numbers := make([]int, len(p.Numbers))
	copy(numbers, p.Numbers)
	return Draw{
		Contest: syntheticContest,
		Date:    p.CreatedAt.Format("02/01/2006"),
		Numbers: numbers,
	}
}
