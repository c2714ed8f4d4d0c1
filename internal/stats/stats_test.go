package stats

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lotoscope/lotoscope/internal/models"
)

// draw builds a test draw without validating: the engine trusts upstream validation,
// and some tests deliberately exercise ordering rather than legality.
func draw(contest int, numbers ...int) models.Draw {
	return models.Draw{Contest: contest, Date: "01/01/2024", Numbers: numbers}
}

// seq returns the numbers from..to inclusive.
func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestCompute_EmptyHistory(t *testing.T) {
	_, err := Compute(nil)
	if !errors.Is(err, ErrNoDraws) {
		t.Fatalf("Compute(nil) error = %v, want ErrNoDraws", err)
	}
}

func TestCompute_FrequencyAccountsForEveryBall(t *testing.T) {
	draws := []models.Draw{
		draw(1, seq(1, 15)...),
		draw(2, seq(11, 25)...),
		draw(3, seq(6, 20)...),
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(report.Frequency) != models.MaxNumber {
		t.Errorf("Expected %d frequency entries, got %d", models.MaxNumber, len(report.Frequency))
	}

	total := 0
	for _, count := range report.Frequency {
		total += count
	}
	if want := models.DrawSize * len(draws); total != want {
		t.Errorf("Frequency total = %d, want %d", total, want)
	}

	// Ball 1 appears only in the first draw; ball 13 in all three.
	if report.Frequency[1] != 1 {
		t.Errorf("Frequency[1] = %d, want 1", report.Frequency[1])
	}
	if report.Frequency[13] != 3 {
		t.Errorf("Frequency[13] = %d, want 3", report.Frequency[13])
	}
}

func TestCompute_ZeroEntriesForAbsentBalls(t *testing.T) {
	report, err := Compute([]models.Draw{draw(1, seq(1, 15)...)})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for n := 16; n <= 25; n++ {
		count, ok := report.Frequency[n]
		if !ok {
			t.Errorf("Frequency missing entry for absent ball %d", n)
		}
		if count != 0 {
			t.Errorf("Frequency[%d] = %d, want 0", n, count)
		}
	}
}

func TestCompute_ParityAveragesSumToDrawSize(t *testing.T) {
	draws := []models.Draw{
		draw(1, seq(1, 15)...),  // 7 even, 8 odd
		draw(2, seq(2, 16)...),  // 8 even, 7 odd
		draw(3, seq(11, 25)...), // 7 even, 8 odd
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if got := report.Parity.Even + report.Parity.Odd; got != float64(models.DrawSize) {
		t.Errorf("Parity.Even + Parity.Odd = %v, want %d", got, models.DrawSize)
	}
	if want := (7.0 + 8.0 + 7.0) / 3.0; report.Parity.Even != want {
		t.Errorf("Parity.Even = %v, want %v", report.Parity.Even, want)
	}
}

func TestCompute_RepeatsFromPrevious(t *testing.T) {
	// Two draws differing in a single ball share 14 numbers.
	draws := []models.Draw{
		draw(1, seq(1, 15)...),
		draw(2, append(seq(1, 14), 16)...),
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if !reflect.DeepEqual(report.RepeatsFromPrevious, []int{14}) {
		t.Errorf("RepeatsFromPrevious = %v, want [14]", report.RepeatsFromPrevious)
	}
	if len(report.Duplicates) != 0 {
		t.Errorf("Duplicates = %v, want empty", report.Duplicates)
	}
}

func TestCompute_RepeatsLengthAndBounds(t *testing.T) {
	draws := []models.Draw{
		draw(1, seq(1, 15)...),
		draw(2, seq(11, 25)...),
		draw(3, seq(1, 15)...),
		draw(4, seq(1, 15)...),
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(report.RepeatsFromPrevious) != len(draws)-1 {
		t.Fatalf("len(RepeatsFromPrevious) = %d, want %d", len(report.RepeatsFromPrevious), len(draws)-1)
	}
	for i, r := range report.RepeatsFromPrevious {
		if r < 0 || r > models.DrawSize {
			t.Errorf("RepeatsFromPrevious[%d] = %d, out of [0,%d]", i, r, models.DrawSize)
		}
	}
	// seq(1,15) vs seq(11,25) overlap on 11..15; identical draws overlap fully.
	if !reflect.DeepEqual(report.RepeatsFromPrevious, []int{5, 5, 15}) {
		t.Errorf("RepeatsFromPrevious = %v, want [5 5 15]", report.RepeatsFromPrevious)
	}
}

func TestCompute_DuplicatesIgnoreNumberOrdering(t *testing.T) {
	forward := seq(1, 15)
	reversed := make([]int, len(forward))
	for i, n := range forward {
		reversed[len(forward)-1-i] = n
	}

	draws := []models.Draw{
		draw(10, forward...),
		draw(20, reversed...),
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	want := []DuplicateGroup{{Numbers: seq(1, 15), Contests: []int{10, 20}}}
	if !reflect.DeepEqual(report.Duplicates, want) {
		t.Errorf("Duplicates = %v, want %v", report.Duplicates, want)
	}
}

func TestCompute_DoesNotReorderInputNumbers(t *testing.T) {
	reversed := make([]int, 15)
	for i := range reversed {
		reversed[i] = 15 - i
	}
	original := append([]int(nil), reversed...)

	draws := []models.Draw{draw(1, reversed...), draw(2, seq(1, 15)...)}
	if _, err := Compute(draws); err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Canonicalization must work on a copy: the draw's own sequence is owned by
	// the caller and may back parse-order rendering elsewhere.
	if !reflect.DeepEqual(draws[0].Numbers, original) {
		t.Errorf("Input numbers were reordered: %v, want %v", draws[0].Numbers, original)
	}
}

func TestCompute_PrimeHistogram(t *testing.T) {
	// 1,3,5,7,9,11,13,15,17 contains six primes (3,5,7,11,13,17); the six evens
	// added to fill the draw are all composite.
	numbers := []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 4, 6, 8, 10, 12, 14}

	report, err := Compute([]models.Draw{draw(1, numbers...)})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for count := 0; count <= 9; count++ {
		want := 0
		if count == 6 {
			want = 1
		}
		if report.PrimeCount[count] != want {
			t.Errorf("PrimeCount[%d] = %d, want %d", count, report.PrimeCount[count], want)
		}
	}
}

func TestCompute_SumDistribution(t *testing.T) {
	// Three draws with sums 180, 190, 180.
	draws := []models.Draw{
		draw(1, append(seq(1, 9), seq(20, 25)...)...),                               // 45 + 135 = 180
		draw(2, append(append(seq(1, 8), 19), seq(20, 25)...)...),                   // 36 + 19 + 135 = 190
		draw(3, append([]int{1, 2, 3, 4, 5, 6, 7, 8, 10, 19}, 21, 22, 23, 24, 25)...), // 180 again
	}

	report, err := Compute(draws)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if report.SumMedian != 180 {
		t.Errorf("SumMedian = %v, want 180", report.SumMedian)
	}
	if !reflect.DeepEqual(report.SumMode, []int{180}) {
		t.Errorf("SumMode = %v, want [180]", report.SumMode)
	}
	if wantAvg := (180.0 + 190.0 + 180.0) / 3.0; math.Abs(report.SumAvg-wantAvg) > 1e-9 {
		t.Errorf("SumAvg = %v, want %v", report.SumAvg, wantAvg)
	}
	// Population std dev over {180, 190, 180}: sqrt(200/9).
	if wantStdDev := math.Sqrt(200.0 / 9.0); math.Abs(report.SumStdDev-wantStdDev) > 1e-9 {
		t.Errorf("SumStdDev = %v, want %v", report.SumStdDev, wantStdDev)
	}
}

func TestCompute_SingleDraw(t *testing.T) {
	report, err := Compute([]models.Draw{draw(1, seq(1, 15)...)})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(report.RepeatsFromPrevious) != 0 {
		t.Errorf("RepeatsFromPrevious = %v, want empty", report.RepeatsFromPrevious)
	}
	if len(report.Duplicates) != 0 {
		t.Errorf("Duplicates = %v, want empty", report.Duplicates)
	}
	if report.SumAvg != 120 || report.SumMedian != 120 {
		t.Errorf("SumAvg/SumMedian = %v/%v, want 120/120", report.SumAvg, report.SumMedian)
	}
	if report.SumStdDev != 0 {
		t.Errorf("SumStdDev = %v, want 0", report.SumStdDev)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	draws := []models.Draw{
		draw(1, seq(1, 15)...),
		draw(2, seq(11, 25)...),
		draw(3, seq(1, 15)...),
	}

	first, err := Compute(draws)
	if err != nil {
		t.Fatalf("first Compute failed: %v", err)
	}
	second, err := Compute(draws)
	if err != nil {
		t.Fatalf("second Compute failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Reports differ between identical invocations")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		sums []int
		want float64
	}{
		{"odd count", []int{190, 180, 180}, 180},
		{"even count averages middles", []int{180, 190, 200, 170}, 185},
		{"single", []int{120}, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.sums); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.sums, got, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		name string
		sums []int
		want []int
	}{
		{"single mode", []int{180, 190, 180}, []int{180}},
		{"tied modes ascending", []int{190, 180, 190, 180, 200}, []int{180, 190}},
		{"all unique reports all", []int{200, 180, 190}, []int{180, 190, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := modes(tt.sums); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("modes(%v) = %v, want %v", tt.sums, got, tt.want)
			}
		})
	}
}
