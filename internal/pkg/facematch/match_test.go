package facematch

import (
	"context"
	"testing"
)

func mustMarshal(t *testing.T, v Vector) string {
	t.Helper()

	blob, err := v.Marshal()
	if err != nil {
		t.Fatalf("marshal template: %v", err)
	}
	return blob
}

func TestMatcherBest(t *testing.T) {
	ctx := context.Background()
	probe := Vector{0.1, 0.2, 0.3}

	t.Run("PicksHighestConfidenceAboveThreshold", func(t *testing.T) {
		// Arrange: distances 0.0 (conf 100) and ~0.36 (conf ~64).
		corpus := []Candidate{
			{ID: 1, Email: "near@x.com", Template: mustMarshal(t, Vector{0.1, 0.4, 0.6})},
			{ID: 2, Email: "exact@x.com", Template: mustMarshal(t, Vector{0.1, 0.2, 0.3})},
		}
		m := NewMatcher(0)

		// Act
		best, ok := m.Best(ctx, probe, corpus)

		// Assert
		if !ok {
			t.Fatal("expected a match")
		}
		if best.Candidate.ID != 2 {
			t.Fatalf("expected candidate 2, got %d", best.Candidate.ID)
		}
		if best.Confidence <= DefaultThreshold {
			t.Fatalf("expected confidence above threshold, got %v", best.Confidence)
		}
	})

	t.Run("EmptyCorpusIsNoMatch", func(t *testing.T) {
		// Act
		_, ok := NewMatcher(0).Best(ctx, probe, nil)

		// Assert
		if ok {
			t.Fatal("expected no match for an empty corpus")
		}
	})

	t.Run("AllBelowThresholdIsNoMatch", func(t *testing.T) {
		// Arrange: distance ~0.9 gives confidence ~10.
		corpus := []Candidate{
			{ID: 1, Template: mustMarshal(t, Vector{1.0, 0.2, 0.3})},
		}

		// Act
		_, ok := NewMatcher(0).Best(ctx, probe, corpus)

		// Assert
		if ok {
			t.Fatal("expected no match when all candidates score below threshold")
		}
	})

	t.Run("FirstCandidateWinsTies", func(t *testing.T) {
		// Arrange: two identical templates, both exact matches.
		tpl := mustMarshal(t, Vector{0.1, 0.2, 0.3})
		corpus := []Candidate{
			{ID: 1, Template: tpl},
			{ID: 2, Template: tpl},
		}

		// Act
		best, ok := NewMatcher(0).Best(ctx, probe, corpus)

		// Assert
		if !ok {
			t.Fatal("expected a match")
		}
		if best.Candidate.ID != 1 {
			t.Fatalf("expected the first candidate to win the tie, got %d", best.Candidate.ID)
		}
	})

	t.Run("SkipsCorruptTemplates", func(t *testing.T) {
		// Arrange
		corpus := []Candidate{
			{ID: 1, Template: "!!not a template!!"},
			{ID: 2, Template: mustMarshal(t, Vector{0.1, 0.2, 0.3})},
		}

		// Act
		best, ok := NewMatcher(0).Best(ctx, probe, corpus)

		// Assert
		if !ok {
			t.Fatal("expected the valid entry to match despite the corrupt one")
		}
		if best.Candidate.ID != 2 {
			t.Fatalf("expected candidate 2, got %d", best.Candidate.ID)
		}
	})
}
