package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/lotoscope/lotoscope/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()
	s, err := New(ctx, filepath.Join(t.TempDir(), "lotoscope.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return s
}

func testDraw(contest int, first int) models.Draw {
	numbers := make([]int, models.DrawSize)
	for i := range numbers {
		numbers[i] = first + i
	}
	return models.Draw{Contest: contest, Date: "15/01/2024", Numbers: numbers}
}

func TestStorage_SaveAndLoadDraws(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	draws := []models.Draw{testDraw(3002, 11), testDraw(3001, 1)}
	if err := s.SaveDraws(ctx, draws); err != nil {
		t.Fatalf("SaveDraws failed: %v", err)
	}

	loaded, err := s.LoadDraws(ctx)
	if err != nil {
		t.Fatalf("LoadDraws failed: %v", err)
	}

	// Input order is preserved, not contest order.
	if !reflect.DeepEqual(loaded, draws) {
		t.Errorf("LoadDraws = %v, want %v", loaded, draws)
	}
}

func TestStorage_SaveDrawsIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	draws := []models.Draw{testDraw(3001, 1), testDraw(3002, 11)}
	if err := s.SaveDraws(ctx, draws); err != nil {
		t.Fatalf("first SaveDraws failed: %v", err)
	}
	if err := s.SaveDraws(ctx, draws); err != nil {
		t.Fatalf("second SaveDraws failed: %v", err)
	}

	count, err := s.CountDraws(ctx)
	if err != nil {
		t.Fatalf("CountDraws failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountDraws = %d, want 2", count)
	}
}

func TestStorage_SaveDrawsRejectsInvalid(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	bad := models.Draw{Contest: 1, Date: "x", Numbers: []int{1, 2, 3}}
	if err := s.SaveDraws(ctx, []models.Draw{bad}); err == nil {
		t.Error("SaveDraws succeeded with invalid draw, want error")
	}

	// The whole batch rolls back.
	count, err := s.CountDraws(ctx)
	if err != nil {
		t.Fatalf("CountDraws failed: %v", err)
	}
	if count != 0 {
		t.Errorf("CountDraws = %d, want 0 after rollback", count)
	}
}

func TestStorage_SaveAndListPredictions(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := &models.Prediction{
		ID:        "pred-1",
		Numbers:   testDraw(0, 1).Numbers,
		Source:    "gemini",
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	second := &models.Prediction{
		ID:        "pred-2",
		Numbers:   testDraw(0, 11).Numbers,
		Source:    "random",
		CreatedAt: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
	}

	if err := s.SavePrediction(ctx, second); err != nil {
		t.Fatalf("SavePrediction failed: %v", err)
	}
	if err := s.SavePrediction(ctx, first); err != nil {
		t.Fatalf("SavePrediction failed: %v", err)
	}

	predictions, err := s.ListPredictions(ctx)
	if err != nil {
		t.Fatalf("ListPredictions failed: %v", err)
	}

	if len(predictions) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(predictions))
	}
	// Oldest first.
	if predictions[0].ID != "pred-1" || predictions[1].ID != "pred-2" {
		t.Errorf("Unexpected order: %s, %s", predictions[0].ID, predictions[1].ID)
	}
	if !reflect.DeepEqual(predictions[0].Numbers, first.Numbers) {
		t.Errorf("Numbers = %v, want %v", predictions[0].Numbers, first.Numbers)
	}
}

func TestStorage_EmptyPathUsesTmpDir(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, "")
	if err != nil {
		t.Fatalf("New with empty path failed: %v", err)
	}
	defer s.Close()

	if _, err := s.CountDraws(ctx); err != nil {
		t.Errorf("CountDraws failed: %v", err)
	}
}
