package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/qbitio/qotp/internal/auth/outbound/store"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	cacheConn     *redis.Client
	idemp         idempotency.Idempotency
	mail          mail.Mail
	messaging     messaging.Messaging
	passcodeStore store.PasscodeStore

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
