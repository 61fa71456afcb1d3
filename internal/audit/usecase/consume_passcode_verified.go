package usecase

import (
	"context"
	"log/slog"
)

type ConsumePasscodeVerifiedInput struct {
	EventID    int64
	Email      string
	VerifiedAt int64
}

func (s *Usecase) ConsumePasscodeVerified(ctx context.Context, in ConsumePasscodeVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasscodeVerified")
	defer span.End()

	if err := s.repoCache.RecordVerified(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to record verified passcode", "event_id", in.EventID, "error", err)
		return err
	}

	return nil
}
