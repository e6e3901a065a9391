package facematch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeImage(t *testing.T) {
	t.Run("AcceptsDataURI", func(t *testing.T) {
		// Act
		img, err := DecodeImage("data:image/png;base64," + pngBase64(t))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
			t.Fatalf("unexpected bounds %v", img.Bounds())
		}
	})

	t.Run("AcceptsBareBase64", func(t *testing.T) {
		if _, err := DecodeImage(pngBase64(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		tests := []string{"", "data:image/png;base64", "not base64 at all!", base64.StdEncoding.EncodeToString([]byte("plain text"))}
		for _, payload := range tests {
			if _, err := DecodeImage(payload); !errors.Is(err, ErrUndecodableImage) {
				t.Fatalf("payload %q: expected ErrUndecodableImage, got %v", payload, err)
			}
		}
	})
}
