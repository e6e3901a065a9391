package facematch

import (
	"context"
	"errors"
	"image"
	"log/slog"
)

var (
	// ErrNoFace indicates the detector found no face in the image.
	ErrNoFace = errors.New("facematch: no face detected")

	// ErrMultipleFaces indicates the detector found more than one face.
	// Ambiguous images are rejected rather than guessing a face.
	ErrMultipleFaces = errors.New("facematch: multiple faces detected")
)

// Extractor locates exactly one face in an image and returns its encoding.
//
// Implementations return ErrNoFace / ErrMultipleFaces for the corresponding
// detector outcomes and wrap any internal detector failure in a distinct
// error so callers can map it to a dependency fault.
type Extractor interface {
	Extract(ctx context.Context, img *image.RGBA) (Vector, error)
}

// DefaultThreshold is the minimum confidence for a match to be accepted.
const DefaultThreshold = 55.0

// Candidate is one enrolled template in the match corpus.
type Candidate struct {
	// ID is the owning user record ID.
	ID int64
	// Email is the owning user email.
	Email string
	// FirstName is the owning user first name.
	FirstName string
	// Template is the stored blob produced by Vector.Marshal.
	Template string
}

// Match is an accepted best-match result.
type Match struct {
	// Candidate is the winning corpus entry.
	Candidate Candidate
	// Confidence is the [0,100] score derived from inverse distance.
	Confidence float64
}

// Matcher scores probe vectors against a corpus.
type Matcher struct {
	threshold float64
}

// NewMatcher builds a Matcher. A non-positive threshold falls back to
// DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Matcher{threshold: threshold}
}

// Best scans the corpus in order and returns the candidate with the highest
// confidence strictly above the threshold, or false when nothing qualifies.
//
// Both comparisons are strictly-greater, so the first candidate reaching the
// maximum score wins ties; corpus order must therefore be deterministic.
// Candidates whose stored template cannot be decoded are skipped with a log
// line, never aborting the whole scan: the corpus may hold legacy entries.
func (m *Matcher) Best(ctx context.Context, probe Vector, corpus []Candidate) (*Match, bool) {
	var best *Match

	for _, cand := range corpus {
		stored, err := Unmarshal(cand.Template)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable face template", "user_id", cand.ID, "error", err)
			continue
		}

		dist, err := Distance(stored, probe)
		if err != nil {
			slog.WarnContext(ctx, "skipping incompatible face template", "user_id", cand.ID, "error", err)
			continue
		}

		confidence := (1 - dist) * 100
		if confidence <= m.threshold {
			continue
		}

		if best == nil || confidence > best.Confidence {
			best = &Match{Candidate: cand, Confidence: confidence}
		}
	}

	if best == nil {
		return nil, false
	}

	return best, true
}
