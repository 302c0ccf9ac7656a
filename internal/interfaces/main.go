package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// ValueTransfer moves gold out of the game economy: shareholder payouts and
// player withdrawals both go through it.
type ValueTransfer interface {
	Send(ctx context.Context, recipient string, amount int64) error
}
