// Package prompt turns a statistics report into the natural-language request
// body sent to the text-generation service. Only a summary subset of the report
// is serialized: top-frequency numbers, parity averages, sum statistics, the
// prime histogram, and the average repeat count.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lotoscope/lotoscope/internal/models"
	"github.com/lotoscope/lotoscope/internal/stats"
)

// TopNumbers returns the k most frequent numbers, most frequent first.
// Ties break toward the lower number for determinism.
func TopNumbers(report *stats.Report, k int) []int {
	numbers := make([]int, 0, len(report.Frequency))
	for n := range report.Frequency {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool {
		fi, fj := report.Frequency[numbers[i]], report.Frequency[numbers[j]]
		if fi != fj {
			return fi > fj
		}
		return numbers[i] < numbers[j]
	})
	if k > len(numbers) {
		k = len(numbers)
	}
	if k < 0 {
		k = 0
	}
	return numbers[:k]
}

// AverageRepeat returns the mean of the repeats-from-previous series, or 0
// when the history has fewer than two draws.
func AverageRepeat(report *stats.Report) float64 {
	if len(report.RepeatsFromPrevious) == 0 {
		return 0
	}
	total := 0
	for _, r := range report.RepeatsFromPrevious {
		total += r
	}
	return float64(total) / float64(len(report.RepeatsFromPrevious))
}

// Build renders the prediction request body from the report summary.
// drawCount is the size of the analyzed history.
func Build(report *stats.Report, drawCount, topK int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are helping analyze a lottery where each draw selects %d distinct numbers from 1 to %d.\n",
		models.DrawSize, models.MaxNumber)
	fmt.Fprintf(&b, "Statistics over the last %d draws:\n\n", drawCount)

	top := TopNumbers(report, topK)
	topStrs := make([]string, len(top))
	for i, n := range top {
		topStrs[i] = fmt.Sprintf("%d (%dx)", n, report.Frequency[n])
	}
	fmt.Fprintf(&b, "- Most frequent numbers: %s\n", strings.Join(topStrs, ", "))

	fmt.Fprintf(&b, "- Average per draw: %.2f even numbers, %.2f odd numbers\n",
		report.Parity.Even, report.Parity.Odd)
	fmt.Fprintf(&b, "- Draw sums: mean %.2f, std dev %.2f, median %.1f, mode %s\n",
		report.SumAvg, report.SumStdDev, report.SumMedian, joinInts(report.SumMode))

	primeParts := make([]string, 0, len(report.PrimeCount))
	for count := 0; count <= 9; count++ {
		if report.PrimeCount[count] > 0 {
			primeParts = append(primeParts, fmt.Sprintf("%d primes in %d draws", count, report.PrimeCount[count]))
		}
	}
	fmt.Fprintf(&b, "- Prime distribution: %s\n", strings.Join(primeParts, "; "))

	fmt.Fprintf(&b, "- On average %.2f numbers repeat from the previous draw\n", AverageRepeat(report))

	if len(report.Duplicates) > 0 {
		fmt.Fprintf(&b, "- %d full combinations have occurred more than once\n", len(report.Duplicates))
	}

	fmt.Fprintf(&b, "\nBased on these statistics, suggest %d distinct numbers between 1 and %d for the next draw. ",
		models.DrawSize, models.MaxNumber)
	b.WriteString("Answer with the numbers only, comma-separated.")

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
