package otp

import (
	"bytes"
	"image/png"

	"github.com/pquerna/otp"
)

// QRPNG renders a provisioning URI as a PNG QR code of size x size pixels.
func QRPNG(uri string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return nil, err
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
