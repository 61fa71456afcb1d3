package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/qbitio/qotp/internal/auth/inbound"
	"github.com/qbitio/qotp/internal/auth/outbound/email"
	"github.com/qbitio/qotp/internal/auth/outbound/generator"
	"github.com/qbitio/qotp/internal/auth/outbound/mq"
	"github.com/qbitio/qotp/internal/auth/outbound/store"
	"github.com/qbitio/qotp/internal/auth/usecase"
	"github.com/qbitio/qotp/internal/pkg/clock"
	"github.com/qbitio/qotp/internal/pkg/config"
	"github.com/qbitio/qotp/internal/pkg/goroutine"
	"github.com/qbitio/qotp/internal/pkg/hash"
	"github.com/qbitio/qotp/internal/pkg/idempotency"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/jwt"
	"github.com/qbitio/qotp/internal/pkg/mail"
	"github.com/qbitio/qotp/internal/pkg/messaging"
	"github.com/qbitio/qotp/internal/pkg/router"
	"github.com/qbitio/qotp/internal/pkg/uid"
	"github.com/qbitio/qotp/internal/pkg/validator"
)

type Dependency struct {
	CacheConn   *redis.Client              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(ctx context.Context, dep Dependency) (store.PasscodeStore, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	opts := store.FactoryOptions{}
	opts.Redis.Client = dep.CacheConn
	opts.Memory.Clock = dep.Clock
	opts.Memory.Goroutine = dep.Goroutine
	opts.Memory.SweepInterval = dep.Config.GetSecond("modules.auth.store.sweep_interval_seconds")

	passcodeStore, err := store.NewFromDriver(ctx, dep.Config.GetString("modules.auth.store.driver"), opts)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		Store:         passcodeStore,
		Generator:     generator.New(dep.Config, dep.Instrument),
		Mailer:        email.New(dep.Mail, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return passcodeStore, nil
}
