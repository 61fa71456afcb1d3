package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/clock"
	"github.com/qbitio/qotp/internal/pkg/goroutine"
)

// Supported driver names for NewFromDriver.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// ErrUnsupportedDriver is returned for unknown driver names.
var ErrUnsupportedDriver = errors.New("store: unsupported driver")

// PasscodeStore persists pending passcode challenges keyed by email.
//
// At most one challenge exists per email; Save replaces any previous one.
type PasscodeStore interface {
	io.Closer
	Save(ctx context.Context, ch entity.PasscodeChallenge, ttl time.Duration) error
	Get(ctx context.Context, email string) (*entity.PasscodeChallenge, error)
	Delete(ctx context.Context, email string) error
}

// FactoryOptions carries per-driver construction inputs.
type FactoryOptions struct {
	Redis struct {
		Client *redis.Client
	}
	Memory struct {
		Clock         clock.Clocker
		Goroutine     *goroutine.Manager
		SweepInterval time.Duration
	}
}

// NewFromDriver builds a PasscodeStore for the configured driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (PasscodeStore, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(ctx, opts.Memory.Clock, opts.Memory.Goroutine, opts.Memory.SweepInterval), nil
	case DriverRedis:
		if opts.Redis.Client == nil {
			return nil, fmt.Errorf("store: redis driver requires a client")
		}
		return NewRedis(opts.Redis.Client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
