package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/qbitio/qotp/internal/audit/entity"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyIssuedTotal     = "audit:passcode_issued:total"
	keyIssuedAttempts  = "audit:passcode_issued:attempts"
	keyVerifiedTotal   = "audit:passcode_verified:total"
	keyRecentIssued    = "audit:passcode_issued:recent"
	recentIssuedWindow = 100
)

// Cache keeps aggregate passcode counters in redis.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) RecordIssued(ctx context.Context, rec entity.IssuedRecord) error {
	ctx, span := c.ins.Tracer("audit.outbound.cache").Start(ctx, "RecordIssued")
	defer span.End()

	body, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, keyIssuedTotal)
	pipe.IncrBy(ctx, keyIssuedAttempts, int64(rec.Attempts))
	pipe.LPush(ctx, keyRecentIssued, body)
	pipe.LTrim(ctx, keyRecentIssued, 0, recentIssuedWindow-1)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c *Cache) RecordVerified(ctx context.Context) error {
	ctx, span := c.ins.Tracer("audit.outbound.cache").Start(ctx, "RecordVerified")
	defer span.End()

	if err := c.client.Incr(ctx, keyVerifiedTotal).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c *Cache) Summary(ctx context.Context) (*entity.Summary, error) {
	ctx, span := c.ins.Tracer("audit.outbound.cache").Start(ctx, "Summary")
	defer span.End()

	pipe := c.client.Pipeline()
	issued := pipe.Get(ctx, keyIssuedTotal)
	attempts := pipe.Get(ctx, keyIssuedAttempts)
	verified := pipe.Get(ctx, keyVerifiedTotal)
	recent := pipe.LRange(ctx, keyRecentIssued, 0, recentIssuedWindow-1)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sum := &entity.Summary{}
	if v, err := issued.Int64(); err == nil {
		sum.Issued = v
	}
	if v, err := verified.Int64(); err == nil {
		sum.Verified = v
	}
	if v, err := attempts.Int64(); err == nil {
		sum.TotalAttempts = v
	}

	sum.Recent = lo.FilterMap(recent.Val(), func(raw string, _ int) (entity.IssuedRecord, bool) {
		var rec entity.IssuedRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return entity.IssuedRecord{}, false
		}
		return rec, true
	})

	return sum, nil
}
