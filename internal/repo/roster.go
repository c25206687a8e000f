package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRosterContention is returned by RosterRepo.Update when every optimistic
// attempt lost to a concurrent writer.
var ErrRosterContention = errors.New("roster order changed concurrently")

// RosterRepo stores the operator's manual roster order per tour. The stored
// list may be stale (travelers added or removed since); callers normalise it
// against the live roster on every read.
type RosterRepo interface {
	// Get returns the saved order, or nil if none was saved yet.
	Get(ctx context.Context, tourID uuid.UUID) ([]uuid.UUID, error)

	// Update reads the saved order, passes it to fn and writes fn's result back
	// only if nobody else wrote the key in between. It retries a bounded
	// number of times and returns the order that was written.
	Update(ctx context.Context, tourID uuid.UUID, fn func(current []uuid.UUID) ([]uuid.UUID, error)) ([]uuid.UUID, error)

	// Delete forgets the saved order, e.g. when a tour is deleted.
	Delete(ctx context.Context, tourID uuid.UUID) error
}

const rosterMaxAttempts = 5

type redisRosterRepo struct {
	client redis.UniversalClient
}

// NewRosterRepo constructs a RosterRepo backed by Redis.
func NewRosterRepo(client redis.UniversalClient) RosterRepo {
	return &redisRosterRepo{client: client}
}

// NewRedisClient parses a redis:// URL and returns a client that has answered
// a PING.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("repo.NewRedisClient: parse url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("repo.NewRedisClient: ping: %w", err)
	}
	return client, nil
}

func rosterKey(tourID uuid.UUID) string {
	return "tour:" + tourID.String() + ":roster"
}

func (r *redisRosterRepo) Get(ctx context.Context, tourID uuid.UUID) ([]uuid.UUID, error) {
	order, err := readRoster(ctx, r.client, rosterKey(tourID))
	if err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.Get: %w", err)
	}
	return order, nil
}

func (r *redisRosterRepo) Update(ctx context.Context, tourID uuid.UUID, fn func([]uuid.UUID) ([]uuid.UUID, error)) ([]uuid.UUID, error) {
	key := rosterKey(tourID)
	var written []uuid.UUID

	txf := func(tx *redis.Tx) error {
		current, err := readRoster(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}

		values := make([]any, len(next))
		for i, id := range next {
			values[i] = id.String()
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(values) > 0 {
				pipe.RPush(ctx, key, values...)
			}
			return nil
		})
		if err == nil {
			written = next
		}
		return err
	}

	for range rosterMaxAttempts {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return written, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("repo.RosterRepo.Update: %w", err)
		}
	}
	return nil, fmt.Errorf("repo.RosterRepo.Update: %w", ErrRosterContention)
}

func (r *redisRosterRepo) Delete(ctx context.Context, tourID uuid.UUID) error {
	if err := r.client.Del(ctx, rosterKey(tourID)).Err(); err != nil {
		return fmt.Errorf("repo.RosterRepo.Delete: %w", err)
	}
	return nil
}

// listReader is satisfied by both a redis client and a *redis.Tx.
type listReader interface {
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

func readRoster(ctx context.Context, c listReader, key string) ([]uuid.UUID, error) {
	raw, err := c.LRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			// A corrupt entry is dropped; the order is normalised by the caller.
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
