package facematch

import (
	"errors"
	"math"
	"testing"
)

func TestVectorMarshal(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		v := Vector{0.25, -1.5, 0, math.Pi}

		// Act
		blob, err := v.Marshal()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := Unmarshal(blob)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(v) {
			t.Fatalf("expected %d elements, got %d", len(v), len(got))
		}
		for i := range v {
			if got[i] != v[i] {
				t.Fatalf("element %d: expected %v, got %v", i, v[i], got[i])
			}
		}
	})

	t.Run("RejectsEmptyVector", func(t *testing.T) {
		if _, err := (Vector{}).Marshal(); !errors.Is(err, ErrEmptyVector) {
			t.Fatalf("expected ErrEmptyVector, got %v", err)
		}
	})
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "NotBase64", blob: "%%%not-base64%%%"},
		{name: "TooShort", blob: "AA=="},
		{name: "LengthMismatch", blob: "AAIAAAAAAAAAAA=="},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unmarshal(tc.blob); !errors.Is(err, ErrCorruptTemplate) {
				t.Fatalf("expected ErrCorruptTemplate, got %v", err)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	t.Run("Euclidean", func(t *testing.T) {
		// Arrange
		a := Vector{0, 0, 0}
		b := Vector{0.3, 0.4, 0}

		// Act
		d, err := Distance(a, b)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(d-0.5) > 1e-12 {
			t.Fatalf("expected distance 0.5, got %v", d)
		}
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		if _, err := Distance(Vector{1}, Vector{1, 2}); err == nil {
			t.Fatal("expected error for mismatched dimensions")
		}
	})
}
