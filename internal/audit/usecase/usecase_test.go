package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/qbitio/qotp/internal/audit/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
)

type fakeRepoCache struct {
	issued   []entity.IssuedRecord
	verified int
	summary  *entity.Summary
	err      error
}

func (f *fakeRepoCache) RecordIssued(_ context.Context, rec entity.IssuedRecord) error {
	if f.err != nil {
		return f.err
	}
	f.issued = append(f.issued, rec)

	return nil
}

func (f *fakeRepoCache) RecordVerified(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.verified++

	return nil
}

func (f *fakeRepoCache) Summary(context.Context) (*entity.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.summary, nil
}

func newUsecase(repo *fakeRepoCache) *Usecase {
	return New(Dependency{RepoCache: repo, Instrument: instrument.NewNoop()})
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	return jwt.SetAuth(t.Context(), jwt.Claims{Email: "user@example.com"})
}

func TestConsumePasscodeIssued(t *testing.T) {
	repo := &fakeRepoCache{}
	uc := newUsecase(repo)

	err := uc.ConsumePasscodeIssued(t.Context(), ConsumePasscodeIssuedInput{
		EventID:   7,
		Email:     "user@example.com",
		Digits:    6,
		Attempts:  2,
		ZeroRatio: 0.49,
		OneRatio:  0.51,
	})
	require.NoError(t, err)
	require.Len(t, repo.issued, 1)
	require.Equal(t, int64(7), repo.issued[0].EventID)

	repo.err = errors.New("redis down")
	err = uc.ConsumePasscodeIssued(t.Context(), ConsumePasscodeIssuedInput{EventID: 8})
	require.Error(t, err)
}

func TestConsumePasscodeVerified(t *testing.T) {
	repo := &fakeRepoCache{}
	uc := newUsecase(repo)

	require.NoError(t, uc.ConsumePasscodeVerified(t.Context(), ConsumePasscodeVerifiedInput{EventID: 9}))
	require.Equal(t, 1, repo.verified)
}

func TestSummary(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		uc := newUsecase(&fakeRepoCache{})

		_, err := uc.Summary(t.Context())

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		require.Equal(t, goerror.CodeUnauthorized, gerr.Code())
	})

	t.Run("Averages", func(t *testing.T) {
		repo := &fakeRepoCache{summary: &entity.Summary{
			Issued:        4,
			Verified:      3,
			TotalAttempts: 6,
			Recent: []entity.IssuedRecord{
				{ZeroRatio: 0.48, OneRatio: 0.52},
				{ZeroRatio: 0.52, OneRatio: 0.48},
			},
		}}
		uc := newUsecase(repo)

		out, err := uc.Summary(authedContext(t))
		require.NoError(t, err)
		require.Equal(t, int64(4), out.Issued)
		require.Equal(t, int64(3), out.Verified)
		require.InDelta(t, 1.5, out.AvgGenAttempts, 1e-9)
		require.InDelta(t, 0.5, out.AvgZeroRatio, 1e-9)
		require.InDelta(t, 0.5, out.AvgOneRatio, 1e-9)
		require.Len(t, out.Recent, 2)
	})

	t.Run("EmptyCounters", func(t *testing.T) {
		uc := newUsecase(&fakeRepoCache{summary: &entity.Summary{}})

		out, err := uc.Summary(authedContext(t))
		require.NoError(t, err)
		require.Zero(t, out.AvgGenAttempts)
		require.Empty(t, out.Recent)
	})
}
