package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/qbitio/qotp/internal/audit/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/jwt"
)

type SummaryOutput struct {
	Issued         int64
	Verified       int64
	AvgGenAttempts float64
	AvgZeroRatio   float64
	AvgOneRatio    float64
	Recent         []entity.IssuedRecord
}

func (s *Usecase) Summary(ctx context.Context) (*SummaryOutput, error) {
	ctx, span := s.startSpan(ctx, "Summary")
	defer span.End()

	if jwt.GetAuth(ctx) == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	sum, err := s.repoCache.Summary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load audit summary", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &SummaryOutput{
		Issued:   sum.Issued,
		Verified: sum.Verified,
		Recent:   sum.Recent,
	}

	if sum.Issued > 0 {
		out.AvgGenAttempts = float64(sum.TotalAttempts) / float64(sum.Issued)
	}
	if n := len(sum.Recent); n > 0 {
		out.AvgZeroRatio = lo.SumBy(sum.Recent, func(r entity.IssuedRecord) float64 { return r.ZeroRatio }) / float64(n)
		out.AvgOneRatio = lo.SumBy(sum.Recent, func(r entity.IssuedRecord) float64 { return r.OneRatio }) / float64(n)
	}

	return out, nil
}
