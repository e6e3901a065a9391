// Package sms delivers one-time codes as text messages. Two adapters are
// provided: Twilio's REST API for real delivery, and a log writer for
// development setups without a gateway account.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/instrument"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// Twilio sends messages through the Twilio Programmable Messaging API using
// form-encoded requests with basic auth, as their REST interface expects.
type Twilio struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	ins        instrument.Instrumentation
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	// BaseURL overrides the Twilio API endpoint, for tests.
	BaseURL string
	Timeout time.Duration
}

func NewTwilio(cfg TwilioConfig, ins instrument.Instrumentation) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, fmt.Errorf("sms: twilio account_sid, auth_token and from are required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = twilioAPIBase
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Twilio{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		ins:        ins,
	}, nil
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	ctx, span := t.ins.Tracer("smsotp.outbound.sms").Start(ctx, "TwilioSend")
	defer span.End()

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return t.fail(span, err)
	}

	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return t.fail(span, fmt.Errorf("reaching sms gateway: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))

		return t.fail(span, fmt.Errorf("sms gateway rejected message: status %d: %s",
			resp.StatusCode, string(payload)))
	}

	return nil
}

func (t *Twilio) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
