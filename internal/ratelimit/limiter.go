package ratelimit

import "context"

// RateLimiter bounds outbound send throughput per delivery channel.
type RateLimiter interface {
	Allow(ctx context.Context, channel string) (bool, error)
	Wait(ctx context.Context, channel string) error
}
