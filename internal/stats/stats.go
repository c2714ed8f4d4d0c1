// Package stats implements the statistics engine: a single forward pass over the
// draw history accumulating per-number frequency, parity, per-draw sums, prime
// counts, and consecutive-draw overlap, followed by a descriptive-statistics pass
// over the collected sums and canonical-key duplicate detection.
//
// The engine is pure: it never mutates the input draws, allocates a fresh Report
// per call, and is safe to invoke concurrently on independent snapshots. Draw
// legality (15 distinct numbers in [1,25]) is an upstream contract enforced by
// the parser and storage layers; the engine assumes it.
//
// RepeatsFromPrevious compares each draw to its immediate predecessor in the
// order the slice is supplied, not in contest order. Callers that merge archived
// predictions onto the history decide the ordering they want measured.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/lotoscope/lotoscope/internal/models"
)

// ErrNoDraws is returned by Compute when the input history is empty.
// Distribution statistics are undefined over zero draws.
var ErrNoDraws = errors.New("no draws to analyze")

// primes holds the nine primes on the 1–25 wheel.
var primes = map[int]bool{
	2: true, 3: true, 5: true, 7: true, 11: true,
	13: true, 17: true, 19: true, 23: true,
}

// maxPrimesPerDraw is the histogram upper bound: a draw can contain at most
// all nine primes.
const maxPrimesPerDraw = 9

// Parity holds the average count of even and odd numbers per draw.
// For any non-empty history Even+Odd == 15, since every draw does.
type Parity struct {
	Even float64 `json:"even"`
	Odd  float64 `json:"odd"`
}

// DuplicateGroup reports one 15-number combination drawn more than once,
// with the contests that produced it in input order.
type DuplicateGroup struct {
	Numbers  []int `json:"numbers"` // canonical (ascending) combination
	Contests []int `json:"contests"`
}

// Report is the immutable result of one engine invocation.
type Report struct {
	// Frequency maps every number 1..25 to the count of draws containing it.
	// Numbers absent from the history are present with value 0.
	Frequency map[int]int `json:"frequency"`

	Parity Parity `json:"parity"`

	// Descriptive statistics over the per-draw sum series.
	SumAvg    float64 `json:"sum_avg"`
	SumStdDev float64 `json:"sum_std_dev"` // population std dev (divide by n)
	SumMedian float64 `json:"sum_median"`
	SumMode   []int   `json:"sum_mode"` // all sums tied at max frequency, ascending

	// PrimeCount maps "primes in a draw" (0..9) to how many draws had that count.
	// Every key 0..9 is present, zero-filled.
	PrimeCount map[int]int `json:"prime_count"`

	// RepeatsFromPrevious holds, for each draw after the first, the number of
	// balls shared with the immediately preceding draw in input order.
	RepeatsFromPrevious []int `json:"repeats_from_previous"`

	// Duplicates lists every combination seen more than once, in order of first
	// appearance.
	Duplicates []DuplicateGroup `json:"duplicates"`
}

// Combination is the canonical (sorted) representation of a draw's numbers,
// usable as a structural map key: no string joining, no delimiter collisions.
type Combination [models.DrawSize]int

// Canonical sorts a copy of the numbers into a fixed-size key. The input slice
// is never reordered: the draw's own sequence may be referenced elsewhere.
func Canonical(numbers []int) Combination {
	var key Combination
	copy(key[:], numbers)
	sort.Ints(key[:])
	return key
}

// accumulator carries the running totals of the single forward pass. It replaces
// the implicit loop state of a closure-based aggregation with an explicit,
// independently steppable value.
type accumulator struct {
	frequency  map[int]int
	evenTotal  int
	oddTotal   int
	sums       []int
	primeCount map[int]int
	repeats    []int

	prevSet map[int]bool // number set of the previous draw, nil before the first step

	groups   map[Combination][]int // canonical combination -> contests, input order
	keyOrder []Combination         // first-seen order, for deterministic output
}

// newAccumulator returns an accumulator with zero-filled frequency and prime
// histograms, sized for n draws.
func newAccumulator(n int) *accumulator {
	freq := make(map[int]int, models.MaxNumber)
	for i := 1; i <= models.MaxNumber; i++ {
		freq[i] = 0
	}
	primeHist := make(map[int]int, maxPrimesPerDraw+1)
	for i := 0; i <= maxPrimesPerDraw; i++ {
		primeHist[i] = 0
	}
	return &accumulator{
		frequency:  freq,
		sums:       make([]int, 0, n),
		primeCount: primeHist,
		repeats:    make([]int, 0, max(n-1, 0)),
		groups:     make(map[Combination][]int),
	}
}

// step folds one draw into the accumulator. Draws must be folded left-to-right
// in input order; the repeats metric depends on it.
func (a *accumulator) step(draw models.Draw) {
	sum := 0
	primeHits := 0
	set := make(map[int]bool, len(draw.Numbers))

	for _, n := range draw.Numbers {
		a.frequency[n]++
		sum += n
		if n%2 == 0 {
			a.evenTotal++
		} else {
			a.oddTotal++
		}
		if primes[n] {
			primeHits++
		}
		set[n] = true
	}

	a.sums = append(a.sums, sum)
	a.primeCount[primeHits]++

	if a.prevSet != nil {
		shared := 0
		for n := range set {
			if a.prevSet[n] {
				shared++
			}
		}
		a.repeats = append(a.repeats, shared)
	}
	a.prevSet = set

	key := Canonical(draw.Numbers)
	if _, seen := a.groups[key]; !seen {
		a.keyOrder = append(a.keyOrder, key)
	}
	a.groups[key] = append(a.groups[key], draw.Contest)
}

// duplicates extracts every group with more than one contest, in first-seen order.
func (a *accumulator) duplicates() []DuplicateGroup {
	out := []DuplicateGroup{}
	for _, key := range a.keyOrder {
		contests := a.groups[key]
		if len(contests) < 2 {
			continue
		}
		numbers := make([]int, models.DrawSize)
		copy(numbers, key[:])
		group := DuplicateGroup{
			Numbers:  numbers,
			Contests: append([]int(nil), contests...),
		}
		out = append(out, group)
	}
	return out
}

// mean returns the arithmetic average of the sums.
func mean(sums []int) float64 {
	total := 0
	for _, s := range sums {
		total += s
	}
	return float64(total) / float64(len(sums))
}

// populationStdDev returns sqrt(mean((s - avg)^2)), dividing by n rather than
// n-1: the history is the whole population, not a sample.
func populationStdDev(sums []int, avg float64) float64 {
	var variance float64
	for _, s := range sums {
		diff := float64(s) - avg
		variance += diff * diff
	}
	variance /= float64(len(sums))
	return math.Sqrt(variance)
}

// median sorts a copy of the sums ascending and returns the middle element,
// averaging the two middle elements for even counts.
func median(sums []int) float64 {
	sorted := append([]int(nil), sums...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// modes returns every sum value tied at the maximum observed frequency,
// ascending. This is a multiset mode: ties are all reported.
func modes(sums []int) []int {
	freq := make(map[int]int, len(sums))
	maxFreq := 0
	for _, s := range sums {
		freq[s]++
		if freq[s] > maxFreq {
			maxFreq = freq[s]
		}
	}
	var out []int
	for s, f := range freq {
		if f == maxFreq {
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}

// Compute runs the engine over the supplied draw history and returns a fresh
// report. Returns ErrNoDraws for an empty history, since mean, median, and mode
// are undefined there. A single draw is computed normally: RepeatsFromPrevious
// and Duplicates are legitimately empty.
func Compute(draws []models.Draw) (*Report, error) {
	if len(draws) == 0 {
		return nil, ErrNoDraws
	}

	acc := newAccumulator(len(draws))
	for _, draw := range draws {
		acc.step(draw)
	}

	n := float64(len(draws))
	avg := mean(acc.sums)

	return &Report{
		Frequency: acc.frequency,
		Parity: Parity{
			Even: float64(acc.evenTotal) / n,
			Odd:  float64(acc.oddTotal) / n,
		},
		SumAvg:              avg,
		SumStdDev:           populationStdDev(acc.sums, avg),
		SumMedian:           median(acc.sums),
		SumMode:             modes(acc.sums),
		PrimeCount:          acc.primeCount,
		RepeatsFromPrevious: acc.repeats,
		Duplicates:          acc.duplicates(),
	}, nil
}
