package render

import (
	"strings"
	"testing"

	"github.com/lotoscope/lotoscope/internal/models"
	"github.com/lotoscope/lotoscope/internal/stats"
)

func TestReport(t *testing.T) {
	draws := []models.Draw{
		{Contest: 10, Date: "01/01/2024", Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{Contest: 20, Date: "03/01/2024", Numbers: []int{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
	}
	report, err := stats.Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	var b strings.Builder
	Report(&b, report, len(draws), 5)
	out := b.String()

	for _, want := range []string{
		"Statistics over 2 draws",
		"Top 5 numbers by frequency",
		"Parity per draw",
		"Draw sums",
		"Primes per draw",
		"Repeats from previous draw",
		"Repeated combinations (1)",
		"contests: 10, 20",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_NoDuplicates(t *testing.T) {
	draws := []models.Draw{
		{Contest: 1, Date: "01/01/2024", Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
	}
	report, err := stats.Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	var b strings.Builder
	Report(&b, report, 1, 3)
	out := b.String()

	if !strings.Contains(out, "No combination has ever repeated.") {
		t.Errorf("Output missing no-duplicates line:\n%s", out)
	}
	if strings.Contains(out, "Repeats from previous draw") {
		t.Errorf("Single draw should have no repeats section:\n%s", out)
	}
}
