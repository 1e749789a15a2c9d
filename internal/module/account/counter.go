package account

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Counter backends.
const (
	CounterPostgres = "postgres"
	CounterRedis    = "redis"
)

const usageKeyPrefix = "quota:free_usage:"

// UsageCounter stores how many free operations a user has run.
type UsageCounter interface {
	// Usage returns the current count for acct.
	Usage(ctx context.Context, acct *Account) (int, error)
	// Increment adds one to the user's count.
	Increment(ctx context.Context, userID string) error
}

// NewUsageCounter returns the counter for backend.
func NewUsageCounter(backend string, repo Repository, client redis.UniversalClient) (UsageCounter, error) {
	switch backend {
	case "", CounterPostgres:
		return &postgresCounter{repo: repo}, nil
	case CounterRedis:
		if client == nil {
			return nil, ErrRedisNotConfigured
		}
		return &redisCounter{repo: repo, client: client}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// postgresCounter keeps the count on the account row.
type postgresCounter struct {
	repo Repository
}

func (c *postgresCounter) Usage(_ context.Context, acct *Account) (int, error) {
	return acct.FreeUsage, nil
}

func (c *postgresCounter) Increment(ctx context.Context, userID string) error {
	if err := c.repo.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// seedUsageScript raises the cached count to the account row's value and
// returns the result, so a lost or stale key never lowers the count.
var seedUsageScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '-1')
local row = tonumber(ARGV[1])
if cur < row then
	redis.call('SET', KEYS[1], row)
	return row
end
return cur
`)

// redisCounter serves reads from redis and writes every increment through
// to the account row, which stays the durable count.
type redisCounter struct {
	repo   Repository
	client redis.UniversalClient
}

func usageKey(userID string) string {
	return usageKeyPrefix + userID
}

func (c *redisCounter) Usage(ctx context.Context, acct *Account) (int, error) {
	n, err := seedUsageScript.Run(ctx, c.client, []string{usageKey(acct.UserID)}, acct.FreeUsage).Int()
	if err != nil {
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return n, nil
}

func (c *redisCounter) Increment(ctx context.Context, userID string) error {
	if err := c.repo.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	if err := c.client.Incr(ctx, usageKey(userID)).Err(); err != nil {
		return fmt.Errorf("increment cached usage: %w", err)
	}
	return nil
}
