package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/qbitio/qotp/internal/audit/usecase"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/messaging"
	"github.com/qbitio/qotp/internal/pkg/uid"
	"github.com/qbitio/qotp/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PasscodeIssuedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "PasscodeIssuedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: passcode issued audit", "msg_body", string(body))

	var payload event.PasscodeIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of passcode issued audit", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasscodeIssued(ctx, usecase.ConsumePasscodeIssuedInput{
		EventID:   payload.EventID,
		Email:     payload.Email,
		Digits:    payload.Digits,
		Attempts:  payload.Attempts,
		ZeroRatio: payload.ZeroRatio,
		OneRatio:  payload.OneRatio,
		IssuedAt:  payload.IssuedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume passcode issued", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PasscodeVerifiedAudit(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "PasscodeVerifiedAudit")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: passcode verified audit", "msg_body", string(body))

	var payload event.PasscodeVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of passcode verified audit", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasscodeVerified(ctx, usecase.ConsumePasscodeVerifiedInput{
		EventID:    payload.EventID,
		Email:      payload.Email,
		VerifiedAt: payload.VerifiedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume passcode verified", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
