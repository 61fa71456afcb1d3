package inbound

import (
	"context"

	"github.com/qbitio/qotp/internal/auth/usecase"
	"github.com/qbitio/qotp/internal/pkg/router"
)

type uc interface {
	RequestPasscode(ctx context.Context, in usecase.RequestPasscodeInput) error
	VerifyPasscode(ctx context.Context, in usecase.VerifyPasscodeInput) (*usecase.VerifyPasscodeOutput, error)
	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Passcode login
	r.POST("/api/v1/auth/otp/request", end.RequestPasscode)
	r.POST("/api/v1/auth/otp/verify", end.VerifyPasscode)

	// Session (need authenticated)
	r.GET("/api/v1/auth/profile", end.Profile)
}
