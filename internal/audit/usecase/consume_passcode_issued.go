package usecase

import (
	"context"
	"log/slog"

	"github.com/qbitio/qotp/internal/audit/entity"
)

type ConsumePasscodeIssuedInput struct {
	EventID   int64
	Email     string
	Digits    int
	Attempts  int
	ZeroRatio float64
	OneRatio  float64
	IssuedAt  int64
}

func (s *Usecase) ConsumePasscodeIssued(ctx context.Context, in ConsumePasscodeIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasscodeIssued")
	defer span.End()

	if err := s.repoCache.RecordIssued(ctx, entity.IssuedRecord{
		EventID:   in.EventID,
		Email:     in.Email,
		Digits:    in.Digits,
		Attempts:  in.Attempts,
		ZeroRatio: in.ZeroRatio,
		OneRatio:  in.OneRatio,
		IssuedAt:  in.IssuedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record issued passcode", "event_id", in.EventID, "error", err)
		return err
	}

	return nil
}
