package orchestrator

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyCache guards action execution against duplicate replay —
// a crash-and-retry of ExecuteApprovedActions, or two concurrent
// workers racing the same incident — by recording each executed
// action ID in Redis with a TTL long enough to cover a retry window.
// Orchestrator works fine with a nil cache; it's an optional hardening
// layer, not a correctness requirement, since Action.ExecutedAt already
// prevents in-process re-execution.
type IdempotencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyCache wraps an existing redis client. ttl should
// comfortably exceed the longest expected gap between a crash and its
// retry; the default keyspace is action IDs scoped under a fixed
// prefix so it doesn't collide with other uses of the same Redis
// instance.
func NewIdempotencyCache(client *redis.Client, ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{client: client, ttl: ttl}
}

func (c *IdempotencyCache) key(actionID string) string {
	return "runbookengine:executed-action:" + actionID
}

// ClaimExecution atomically marks actionID as claimed for execution.
// Returns true if this call made the claim (the caller should proceed
// with execution), false if another caller already claimed it.
func (c *IdempotencyCache) ClaimExecution(ctx context.Context, actionID string) (bool, error) {
	return c.client.SetNX(ctx, c.key(actionID), "1", c.ttl).Result()
}
