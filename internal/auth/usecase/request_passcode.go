package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/idempotency"
	"github.com/qbitio/qotp/internal/pkg/mail"
)

const defaultPasscodeDigits = 6

type RequestPasscodeInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) RequestPasscode(ctx context.Context, in RequestPasscodeInput) error {
	ctx, span := s.startSpan(ctx, "RequestPasscode")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cooldown := s.cfg.GetSecond("modules.auth.request_cooldown_seconds")
	if cooldown > 0 {
		state, err := s.idemp.Acquire(ctx, "auth:passcode:request:"+in.Email, cooldown)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check passcode request cooldown", "email", in.Email, "error", err)
			return goerror.NewServer(err)
		}
		if state != idempotency.StateNone {
			slog.WarnContext(ctx, "passcode requested within cooldown window", "email", in.Email)
			return goerror.NewBusiness("A code was sent recently. Please wait before requesting another.", goerror.CodeTooManyRequest)
		}
	}

	digits := s.cfg.GetInt("modules.auth.passcode_digits")
	if digits <= 0 {
		digits = defaultPasscodeDigits
	}

	passcode, err := s.generator.Passcode(ctx, digits)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "email", in.Email, "error", err)
		return goerror.NewUnavailable(err, "Could not generate a login code. Please try again later.")
	}

	codeHash, err := s.hmac.Hash(passcode.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.auth.passcode_ttl_minutes")
	now := s.clock.Now()

	if err := s.store.Save(ctx, entity.PasscodeChallenge{
		Email:     in.Email,
		CodeHash:  string(codeHash),
		Digits:    passcode.Digits,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store passcode challenge", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.mailer.Send(ctx, mail.Message{
		To:      []string{in.Email},
		Subject: "Your login code",
		TextBody: fmt.Sprintf(
			"Your one-time login code is %s. It expires in %d minutes. If you did not request it, you can ignore this email.",
			passcode.Code, int(ttl.Minutes()),
		),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver passcode email", "email", in.Email, "error", err)
		return goerror.NewUnavailable(err, "Could not send the login code email. Please try again later.")
	}

	if err := s.repoMsg.PublishPasscodeIssued(ctx, PasscodeIssuedEvent{
		EventID:   s.uid.Generate(),
		Email:     in.Email,
		Digits:    passcode.Digits,
		Attempts:  passcode.Attempts,
		ZeroRatio: passcode.ZeroRatio,
		OneRatio:  passcode.OneRatio,
		IssuedAt:  now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish passcode issued", "email", in.Email, "error", err)
	}

	return nil
}
