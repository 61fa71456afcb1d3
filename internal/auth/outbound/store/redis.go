package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
)

const redisKeyPrefix = "passcode:"

// Redis is a PasscodeStore backed by a shared redis instance.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Save stores the challenge as JSON with the TTL enforced by redis.
func (r *Redis) Save(ctx context.Context, ch entity.PasscodeChallenge, ttl time.Duration) error {
	body, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, redisKeyPrefix+ch.Email, body, ttl).Err()
}

// Get returns the pending challenge, or goerror.ErrNotFound when absent.
func (r *Redis) Get(ctx context.Context, email string) (*entity.PasscodeChallenge, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ch entity.PasscodeChallenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, err
	}

	return &ch, nil
}

// Delete removes the challenge for the email, if any.
func (r *Redis) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, redisKeyPrefix+email).Err()
}

// Close is a no-op; the redis client is owned by the application.
func (r *Redis) Close() error {
	return nil
}
