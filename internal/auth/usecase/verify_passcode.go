package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/qbitio/qotp/internal/pkg/goerror"
)

type VerifyPasscodeInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,passcode"`
}

type VerifyPasscodeOutput struct {
	AccessToken string
}

func (s *Usecase) VerifyPasscode(ctx context.Context, in VerifyPasscodeInput) (*VerifyPasscodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyPasscode")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.store.Get(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "passcode verify without pending challenge", "email", in.Email)
		return nil, goerror.NewBusiness("No login code was requested for this email.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load passcode challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.hmac.Verify(ch.CodeHash, in.Code) {
		slog.WarnContext(ctx, "passcode does not match", "email", in.Email)
		return nil, goerror.NewBusiness("Invalid or expired login code.", goerror.CodeUnauthorized)
	}

	if ch.Expired(s.clock.Now()) {
		slog.WarnContext(ctx, "passcode expired", "email", in.Email)
		return nil, goerror.NewBusiness("Invalid or expired login code.", goerror.CodeUnauthorized)
	}

	// Single use: the challenge is gone whether or not token issuance succeeds.
	if err := s.store.Delete(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to delete passcode challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMsg.PublishPasscodeVerified(ctx, PasscodeVerifiedEvent{
		EventID:    s.uid.Generate(),
		Email:      in.Email,
		VerifiedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish passcode verified", "email", in.Email, "error", err)
	}

	return &VerifyPasscodeOutput{AccessToken: token}, nil
}
