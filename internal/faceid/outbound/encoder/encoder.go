// Package encoder calls an external face-inference service over HTTP.
//
// The service receives an image and returns one feature vector per detected
// face. The exactly-one-face rule is applied here, on the full list of
// detections.
package encoder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/instrument"
)

// Client is a facematch.Extractor backed by a remote encoder service.
type Client struct {
	baseURL string
	http    *http.Client
	ins     instrument.Instrumentation
}

// NewClient builds an encoder client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, ins instrument.Instrumentation) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		ins:     ins,
	}
}

type encodeRequest struct {
	Image string `json:"image"`
}

type encodeResponse struct {
	Vectors [][]float64 `json:"vectors"`
}

// Extract sends the image to the encoder service and returns the single
// detected face vector.
func (c *Client) Extract(ctx context.Context, img *image.RGBA) (facematch.Vector, error) {
	ctx, span := c.ins.Tracer("faceid.outbound.encoder").Start(ctx, "Extract")
	defer span.End()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, c.fail(span, fmt.Errorf("encoder: encode image: %w", err))
	}

	body, err := json.Marshal(encodeRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("encoder: marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/encode", bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("encoder: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("encoder: call service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, c.fail(span, fmt.Errorf("encoder: service returned %d: %s", resp.StatusCode, payload))
	}

	var out encodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, c.fail(span, fmt.Errorf("encoder: decode response: %w", err))
	}

	switch len(out.Vectors) {
	case 0:
		return nil, facematch.ErrNoFace
	case 1:
		return facematch.Vector(out.Vectors[0]), nil
	default:
		return nil, facematch.ErrMultipleFaces
	}
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
