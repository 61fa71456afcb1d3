package usecase

import (
	"context"
	"time"

	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/jwt"
)

type ProfileOutput struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	_, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	out := &ProfileOutput{Email: clm.Email}
	if clm.IssuedAt != nil {
		out.IssuedAt = clm.IssuedAt.Time
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
