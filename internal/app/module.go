package app

import (
	"log/slog"
	"os"

	"github.com/qbitio/qotp/internal/audit"
	"github.com/qbitio/qotp/internal/auth"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		passcodeStore, err := auth.New(a.ctx, auth.Dependency{
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			HMAC:        a.hmac,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			CacheConn:   a.cacheConn,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Mail:        a.mail,
			Goroutine:   a.goroutine,
			JWT:         a.jwt,
		})
		if err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
		a.passcodeStore = passcodeStore
	}

	if a.config.GetBool("modules.audit.enabled") {
		if err := audit.New(audit.Dependency{
			Ctx:        a.ctx,
			CacheConn:  a.cacheConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module audit", "error", err)
			os.Exit(1)
		}
	}
}
