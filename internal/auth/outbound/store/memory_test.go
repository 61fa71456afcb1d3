package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func challenge(email string, now time.Time) entity.PasscodeChallenge {
	return entity.PasscodeChallenge{
		Email:     email,
		CodeHash:  "deadbeef",
		Digits:    6,
		IssuedAt:  now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func TestMemoryStore(t *testing.T) {
	t.Run("SaveAndGet", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		ch := challenge("user@example.com", clk.Now())
		require.NoError(t, m.Save(t.Context(), ch, 5*time.Minute))

		got, err := m.Get(t.Context(), "user@example.com")
		require.NoError(t, err)
		require.Equal(t, ch, *got)
	})

	t.Run("GetMissing", func(t *testing.T) {
		m := NewMemory(t.Context(), &stubClock{now: time.Now()}, nil, 0)

		_, err := m.Get(t.Context(), "nobody@example.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		first := challenge("user@example.com", clk.Now())
		require.NoError(t, m.Save(t.Context(), first, 5*time.Minute))

		second := first
		second.CodeHash = "cafef00d"
		require.NoError(t, m.Save(t.Context(), second, 5*time.Minute))

		got, err := m.Get(t.Context(), "user@example.com")
		require.NoError(t, err)
		require.Equal(t, "cafef00d", got.CodeHash)
	})

	t.Run("ExpiresLazily", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		require.NoError(t, m.Save(t.Context(), challenge("user@example.com", clk.Now()), 5*time.Minute))

		clk.Advance(6 * time.Minute)

		_, err := m.Get(t.Context(), "user@example.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)

		_, _, _, evictions := m.Stats()
		require.Equal(t, int64(1), evictions)
	})

	t.Run("Delete", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		require.NoError(t, m.Save(t.Context(), challenge("user@example.com", clk.Now()), 5*time.Minute))
		require.NoError(t, m.Delete(t.Context(), "user@example.com"))

		_, err := m.Get(t.Context(), "user@example.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("Sweep", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		require.NoError(t, m.Save(t.Context(), challenge("a@example.com", clk.Now()), time.Minute))
		require.NoError(t, m.Save(t.Context(), challenge("b@example.com", clk.Now()), time.Hour))

		clk.Advance(10 * time.Minute)
		m.sweep()

		_, err := m.Get(t.Context(), "a@example.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)

		_, err = m.Get(t.Context(), "b@example.com")
		require.NoError(t, err)
	})

	t.Run("Stats", func(t *testing.T) {
		clk := &stubClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		m := NewMemory(t.Context(), clk, nil, 0)

		require.NoError(t, m.Save(t.Context(), challenge("user@example.com", clk.Now()), 5*time.Minute))

		_, err := m.Get(t.Context(), "user@example.com")
		require.NoError(t, err)
		_, err = m.Get(t.Context(), "other@example.com")
		require.Error(t, err)

		saves, hits, misses, _ := m.Stats()
		require.Equal(t, int64(1), saves)
		require.Equal(t, int64(1), hits)
		require.Equal(t, int64(1), misses)
	})
}

func TestNewFromDriver(t *testing.T) {
	t.Run("DefaultsToMemory", func(t *testing.T) {
		s, err := NewFromDriver(t.Context(), "", FactoryOptions{})
		require.NoError(t, err)
		require.IsType(t, &Memory{}, s)
	})

	t.Run("RedisRequiresClient", func(t *testing.T) {
		_, err := NewFromDriver(t.Context(), DriverRedis, FactoryOptions{})
		require.Error(t, err)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := NewFromDriver(t.Context(), "postgres", FactoryOptions{})
		require.True(t, errors.Is(err, ErrUnsupportedDriver))
	})
}
