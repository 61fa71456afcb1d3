package usecase

import (
	"context"
	"time"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/auth/outbound/store"
	"github.com/qbitio/qotp/internal/pkg/clock"
	"github.com/qbitio/qotp/internal/pkg/config"
	"github.com/qbitio/qotp/internal/pkg/hash"
	"github.com/qbitio/qotp/internal/pkg/idempotency"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/jwt"
	"github.com/qbitio/qotp/internal/pkg/mail"
	"github.com/qbitio/qotp/internal/pkg/uid"
	"github.com/qbitio/qotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type PasscodeIssuedEvent struct {
	EventID   int64
	Email     string
	Digits    int
	Attempts  int
	ZeroRatio float64
	OneRatio  float64
	IssuedAt  time.Time
}

type PasscodeVerifiedEvent struct {
	EventID    int64
	Email      string
	VerifiedAt time.Time
}

type repoMessaging interface {
	PublishPasscodeIssued(ctx context.Context, msg PasscodeIssuedEvent) error
	PublishPasscodeVerified(ctx context.Context, msg PasscodeVerifiedEvent) error
}

type passcodeGenerator interface {
	Passcode(ctx context.Context, digits int) (*entity.Passcode, error)
}

type mailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	store     store.PasscodeStore
	generator passcodeGenerator
	mailer    mailSender
	repoMsg   repoMessaging
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	Store         store.PasscodeStore
	Generator     passcodeGenerator
	Mailer        mailSender
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		generator: dep.Generator,
		mailer:    dep.Mailer,
		repoMsg:   dep.RepoMessaging,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}
