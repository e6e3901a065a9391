package facematch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	// Register the decoders for the formats browsers submit.
	_ "image/jpeg"
	_ "image/png"
)

// ErrUndecodableImage indicates the image payload could not be decoded.
var ErrUndecodableImage = errors.New("facematch: undecodable image payload")

// DecodeImage turns a submitted payload into a canonical RGBA image. The
// payload may be a data URI ("data:image/jpeg;base64,...") or bare base64.
func DecodeImage(payload string) (*image.RGBA, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrUndecodableImage
	}

	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, ErrUndecodableImage
		}
		payload = rest
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	return toRGBA(img), nil
}

// toRGBA normalizes any decoded image to a 3-channel-plus-alpha pixel layout
// so extractor adapters see a single representation.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
