package store

import (
	"context"
	"sync"
	"time"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/clock"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/goroutine"
	"go.uber.org/atomic"
)

const defaultSweepInterval = time.Minute

type memoryEntry struct {
	challenge entity.PasscodeChallenge
	deadline  time.Time
}

// Memory is an in-process PasscodeStore for single-instance deployments.
//
// Expired entries are dropped lazily on read and by a periodic sweeper.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   clock.Clocker

	saves     atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewMemory builds a Memory store and starts its sweeper on the given context.
func NewMemory(ctx context.Context, clk clock.Clocker, routine *goroutine.Manager, sweepInterval time.Duration) *Memory {
	if clk == nil {
		clk = clock.New()
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	m := &Memory{
		entries: make(map[string]memoryEntry),
		clock:   clk,
	}

	if routine != nil {
		routine.Go(ctx, func(pCtx context.Context) error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()

			for {
				select {
				case <-pCtx.Done():
					return nil
				case <-ticker.C:
					m.sweep()
				}
			}
		})
	}

	return m
}

// Save stores or replaces the challenge for its email.
func (m *Memory) Save(ctx context.Context, ch entity.PasscodeChallenge, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[ch.Email] = memoryEntry{challenge: ch, deadline: m.clock.Now().Add(ttl)}
	m.mu.Unlock()

	m.saves.Inc()

	return nil
}

// Get returns the pending challenge, or goerror.ErrNotFound when absent or expired.
func (m *Memory) Get(ctx context.Context, email string) (*entity.PasscodeChallenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entry, ok := m.entries[email]
	m.mu.RUnlock()

	if !ok {
		m.misses.Inc()
		return nil, goerror.ErrNotFound
	}

	if m.clock.Now().After(entry.deadline) {
		m.mu.Lock()
		delete(m.entries, email)
		m.mu.Unlock()

		m.evictions.Inc()
		m.misses.Inc()
		return nil, goerror.ErrNotFound
	}

	m.hits.Inc()
	ch := entry.challenge

	return &ch, nil
}

// Delete removes the challenge for the email, if any.
func (m *Memory) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.entries, email)
	m.mu.Unlock()

	return nil
}

// Close implements io.Closer; the sweeper stops with its context.
func (m *Memory) Close() error {
	return nil
}

// Stats reports lifetime counters for observability endpoints.
func (m *Memory) Stats() (saves, hits, misses, evictions int64) {
	return m.saves.Load(), m.hits.Load(), m.misses.Load(), m.evictions.Load()
}

func (m *Memory) sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	for email, entry := range m.entries {
		if now.After(entry.deadline) {
			delete(m.entries, email)
			m.evictions.Inc()
		}
	}
	m.mu.Unlock()
}
