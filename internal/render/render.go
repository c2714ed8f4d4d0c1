// Package render formats a statistics report for terminal display.
// All rounding happens here; the engine itself never rounds.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/lotoscope/lotoscope/internal/prompt"
	"github.com/lotoscope/lotoscope/internal/stats"
)

// Report writes the full report to w. topK controls the size of the
// frequency ranking section.
func Report(w io.Writer, report *stats.Report, drawCount, topK int) {
	fmt.Fprintf(w, "Statistics over %d draws\n", drawCount)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	printFrequency(w, report, topK)
	printParity(w, report)
	printSums(w, report)
	printPrimes(w, report)
	printRepeats(w, report)
	printDuplicates(w, report)
}

func printFrequency(w io.Writer, report *stats.Report, topK int) {
	fmt.Fprintf(w, "\nTop %d numbers by frequency:\n", topK)
	for i, n := range prompt.TopNumbers(report, topK) {
		fmt.Fprintf(w, "  %2d. number %2d drawn %d times\n", i+1, n, report.Frequency[n])
	}
}

func printParity(w io.Writer, report *stats.Report) {
	fmt.Fprintln(w, "\nParity per draw:")
	fmt.Fprintf(w, "  even: %.2f   odd: %.2f\n", report.Parity.Even, report.Parity.Odd)
}

func printSums(w io.Writer, report *stats.Report) {
	fmt.Fprintln(w, "\nDraw sums:")
	fmt.Fprintf(w, "  mean: %.2f   std dev: %.2f   median: %.1f\n",
		report.SumAvg, report.SumStdDev, report.SumMedian)
	fmt.Fprintf(w, "  mode: %s\n", joinInts(report.SumMode))
}

func printPrimes(w io.Writer, report *stats.Report) {
	fmt.Fprintln(w, "\nPrimes per draw:")
	for count := 0; count <= 9; count++ {
		if report.PrimeCount[count] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %d primes: %d draws\n", count, report.PrimeCount[count])
	}
}

func printRepeats(w io.Writer, report *stats.Report) {
	if len(report.RepeatsFromPrevious) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRepeats from previous draw:")
	fmt.Fprintf(w, "  average: %.2f over %d transitions\n",
		prompt.AverageRepeat(report), len(report.RepeatsFromPrevious))
}

func printDuplicates(w io.Writer, report *stats.Report) {
	if len(report.Duplicates) == 0 {
		fmt.Fprintln(w, "\nNo combination has ever repeated.")
		return
	}
	fmt.Fprintf(w, "\nRepeated combinations (%d):\n", len(report.Duplicates))
	for _, group := range report.Duplicates {
		fmt.Fprintf(w, "  %s\n    contests: %s\n", joinInts(group.Numbers), joinInts(group.Contests))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
