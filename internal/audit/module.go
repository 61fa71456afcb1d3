package audit

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/qbitio/qotp/internal/audit/inbound"
	"github.com/qbitio/qotp/internal/audit/outbound/cache"
	"github.com/qbitio/qotp/internal/audit/usecase"
	"github.com/qbitio/qotp/internal/pkg/config"
	"github.com/qbitio/qotp/internal/pkg/goroutine"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/messaging"
	"github.com/qbitio/qotp/internal/pkg/router"
	"github.com/qbitio/qotp/internal/pkg/uid"
	"github.com/qbitio/qotp/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoCache := cache.NewCache(dep.CacheConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoCache:  repoCache,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
