// Package facematch implements the face login decision logic: a fixed-schema
// encoding for stored face templates, and a best-match search that scores a
// probe vector against a corpus of enrolled templates.
//
// Locating and encoding faces in an image is delegated to the Extractor port;
// this package only deals in the resulting numeric vectors.
package facematch

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrCorruptTemplate indicates a stored template that cannot be decoded.
	ErrCorruptTemplate = errors.New("facematch: corrupt template")

	// ErrEmptyVector indicates an attempt to encode a zero-length vector.
	ErrEmptyVector = errors.New("facematch: empty vector")
)

// Vector is a fixed-length numeric face encoding. Vectors are compared with
// euclidean distance; the reference encoder emits 128 dimensions.
type Vector []float64

// Marshal serializes the vector into a text-safe opaque blob: a big-endian
// uint16 element count followed by the IEEE 754 bits of each element, base64
// encoded. This is the storage format for the users table secret column.
func (v Vector) Marshal() (string, error) {
	if len(v) == 0 {
		return "", ErrEmptyVector
	}
	if len(v) > math.MaxUint16 {
		return "", fmt.Errorf("facematch: vector too long: %d", len(v))
	}

	raw := make([]byte, 2+8*len(v))
	binary.BigEndian.PutUint16(raw[0:2], uint16(len(v)))
	for i, f := range v {
		binary.BigEndian.PutUint64(raw[2+8*i:], math.Float64bits(f))
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

// Unmarshal decodes a blob produced by Marshal. Any structural problem
// (bad base64, truncated payload, length mismatch) yields ErrCorruptTemplate
// so callers can treat legacy or damaged entries uniformly.
func Unmarshal(blob string) (Vector, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTemplate, err)
	}

	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: missing length prefix", ErrCorruptTemplate)
	}

	n := int(binary.BigEndian.Uint16(raw[0:2]))
	if n == 0 || len(raw) != 2+8*n {
		return nil, fmt.Errorf("%w: length prefix %d does not match payload", ErrCorruptTemplate, n)
	}

	v := make(Vector, n)
	for i := range v {
		v[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[2+8*i:]))
	}

	return v, nil
}

// Distance returns the euclidean distance between two vectors. Encodings from
// the reference extractor live in a space where distances between faces fall
// roughly in [0, 1].
func Distance(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: dimension mismatch %d vs %d", ErrCorruptTemplate, len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum), nil
}
