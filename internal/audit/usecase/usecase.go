package usecase

import (
	"context"

	"github.com/qbitio/qotp/internal/audit/entity"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoCache interface {
	RecordIssued(ctx context.Context, rec entity.IssuedRecord) error
	RecordVerified(ctx context.Context) error
	Summary(ctx context.Context) (*entity.Summary, error)
}

type Usecase struct {
	repoCache repoCache
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoCache  repoCache
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoCache: dep.RepoCache,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("audit.usecase").Start(ctx, name)
}
