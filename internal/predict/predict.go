// Package predict implements the local generation policy: random 15-number
// tickets that avoid every combination already present in the history, and the
// merging of archived predictions into the draw sequence as synthetic draws.
package predict

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"github.com/lotoscope/lotoscope/internal/models"
	"github.com/lotoscope/lotoscope/internal/stats"
)

// maxAttempts bounds the rejection loop. With 3,268,760 possible combinations
// the odds of exhausting this against any real history are negligible.
const maxAttempts = 1000

// Generator produces duplicate-aware random tickets.
type Generator struct {
	known map[stats.Combination]bool
}

// NewGenerator builds a generator that rejects every combination present in
// the supplied history.
func NewGenerator(history []models.Draw) *Generator {
	known := make(map[stats.Combination]bool, len(history))
	for _, draw := range history {
		known[stats.Canonical(draw.Numbers)] = true
	}
	return &Generator{known: known}
}

// Ticket returns a random 15-number combination, sorted ascending, that has
// never appeared in the history. Generated tickets are remembered so repeated
// calls never return the same combination twice.
func (g *Generator) Ticket() ([]int, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		numbers, err := randomCombination()
		if err != nil {
			return nil, err
		}
		key := stats.Canonical(numbers)
		if g.known[key] {
			continue
		}
		g.known[key] = true
		return numbers, nil
	}
	return nil, fmt.Errorf("no unseen combination found in %d attempts", maxAttempts)
}

// randomCombination draws 15 distinct numbers from the 1–25 wheel using
// crypto/rand, returned sorted ascending.
func randomCombination() ([]int, error) {
	pool := make([]int, models.MaxNumber)
	for i := range pool {
		pool[i] = i + 1
	}

	numbers := make([]int, 0, models.DrawSize)
	for i := 0; i < models.DrawSize; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return nil, fmt.Errorf("random index: %w", err)
		}
		j := int(idx.Int64())
		numbers = append(numbers, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}

	sort.Ints(numbers)
	return numbers, nil
}

// MergePredictions appends archived predictions to the draw history as
// synthetic draws with negative contest identifiers (-1 for the oldest
// prediction, -2 for the next, and so on). The input slices are not mutated;
// a fresh slice is returned.
func MergePredictions(draws []models.Draw, predictions []models.Prediction) []models.Draw {
	merged := make([]models.Draw, 0, len(draws)+len(predictions))
	merged = append(merged, draws...)
	for i, p := range predictions {
		merged = append(merged, p.AsDraw(-(i + 1)))
	}
	return merged
}
