package inbound

import (
	"github.com/qbitio/qotp/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for passcode audit data.
type HTTPEndpoint struct {
	uc uc
}

// Summary returns aggregate passcode issuance and verification counters.
// @Summary Passcode activity summary
// @Description Returns issued/verified totals and recent generation statistics.
// @Tags Audit
// @Produce json
// @Success 200 {object} router.successResponse{data=SummaryResponse} "Aggregated counters"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/audit/summary [get]
func (h *HTTPEndpoint) Summary(r *router.Request) (any, error) {
	resp, err := h.uc.Summary(r.Context())
	if err != nil {
		return nil, err
	}

	recent := make([]IssuedRecordResponse, 0, len(resp.Recent))
	for _, rec := range resp.Recent {
		recent = append(recent, IssuedRecordResponse{
			EventID:   rec.EventID,
			Email:     rec.Email,
			Digits:    rec.Digits,
			Attempts:  rec.Attempts,
			ZeroRatio: rec.ZeroRatio,
			OneRatio:  rec.OneRatio,
			IssuedAt:  rec.IssuedAt,
		})
	}

	return SummaryResponse{
		Issued:         resp.Issued,
		Verified:       resp.Verified,
		AvgGenAttempts: resp.AvgGenAttempts,
		AvgZeroRatio:   resp.AvgZeroRatio,
		AvgOneRatio:    resp.AvgOneRatio,
		Recent:         recent,
	}, nil
}
