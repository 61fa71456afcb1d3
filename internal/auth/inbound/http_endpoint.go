package inbound

import (
	"github.com/qbitio/qotp/internal/auth/usecase"
	"github.com/qbitio/qotp/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passcode login workflow.
type HTTPEndpoint struct {
	uc uc
}

// RequestPasscode generates a one-time passcode and emails it to the user.
// @Summary Request login code
// @Description Generates a one-time passcode and sends it to the given email address.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestPasscodeRequest true "Passcode request payload"
// @Success 200 {object} router.successResponse "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Requested too recently"
// @Failure 503 {object} router.errorResponse "Code generation or delivery unavailable"
// @Router /api/v1/auth/otp/request [post]
func (h *HTTPEndpoint) RequestPasscode(r *router.Request) (any, error) {
	var req RequestPasscodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestPasscode(r.Context(), usecase.RequestPasscodeInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return RequestPasscodeResponse{}, nil
}

// VerifyPasscode checks a one-time passcode and issues an access token.
// @Summary Verify login code
// @Description Validates the emailed passcode and returns a signed access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyPasscodeRequest true "Passcode verify payload"
// @Success 200 {object} router.successResponse{data=VerifyPasscodeResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 404 {object} router.errorResponse "No code requested"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) VerifyPasscode(r *router.Request) (any, error) {
	var req VerifyPasscodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyPasscode(r.Context(), usecase.VerifyPasscodeInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyPasscodeResponse{AccessToken: resp.AccessToken}, nil
}

// Profile returns the authenticated session details.
// @Summary Session profile
// @Description Returns the email and token lifetime of the authenticated session.
// @Tags Auth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Session details"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/auth/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		Email:     resp.Email,
		IssuedAt:  resp.IssuedAt,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
