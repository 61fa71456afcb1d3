package inbound

import (
	"context"

	"github.com/qbitio/qotp/internal/audit/usecase"
	"github.com/qbitio/qotp/internal/pkg/router"
)

type uc interface {
	ConsumePasscodeIssued(ctx context.Context, in usecase.ConsumePasscodeIssuedInput) error
	ConsumePasscodeVerified(ctx context.Context, in usecase.ConsumePasscodeVerifiedInput) error
	Summary(ctx context.Context) (*usecase.SummaryOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Audit (need authenticated)
	r.GET("/api/v1/audit/summary", end.Summary)
}
