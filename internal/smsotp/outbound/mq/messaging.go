package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/messaging"
	"github.com/authlab/authmethods/internal/shared/event"
	"github.com/authlab/authmethods/internal/smsotp/usecase"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	ctx, span := m.ins.Tracer("smsotp.outbound.mq").Start(ctx, "PublishUserRegistered")
	defer span.End()

	body, err := json.Marshal(event.UserRegisteredMessage{
		UserID:     msg.UserID,
		Email:      msg.Email,
		FirstName:  msg.FirstName,
		AuthMethod: "sms",
	})
	if err != nil {
		return m.fail(span, err)
	}

	if err := m.publish(ctx, event.UserRegisteredDestination, body); err != nil {
		return m.fail(span, err)
	}

	return nil
}

func (m *Messaging) PublishOTPSent(ctx context.Context, msg usecase.OTPSentEvent) error {
	ctx, span := m.ins.Tracer("smsotp.outbound.mq").Start(ctx, "PublishOTPSent")
	defer span.End()

	body, err := json.Marshal(event.OTPSentMessage{
		Email:       msg.Email,
		PhoneNumber: msg.PhoneNumber,
	})
	if err != nil {
		return m.fail(span, err)
	}

	if err := m.publish(ctx, event.OTPSentDestination, body); err != nil {
		return m.fail(span, err)
	}

	return nil
}

func (m *Messaging) publish(ctx context.Context, destination string, body []byte) error {
	cID := instrument.GetCorrelationID(ctx)
	_, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})

	return err
}

func (m *Messaging) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
