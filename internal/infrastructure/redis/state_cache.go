package redis

import (
	"auction-settlement/internal/domain"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStateCache mirrors auction status for the bidding side, which rejects
// bids once an auction is no longer active.
type RedisStateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateCache keeps terminal statuses for ttl; zero keeps them forever.
func NewRedisStateCache(client *redis.Client, ttl time.Duration) *RedisStateCache {
	return &RedisStateCache{client: client, ttl: ttl}
}

func statusKey(auctionID string) string {
	return fmt.Sprintf("auction:%s:status", auctionID)
}

func (r *RedisStateCache) SetAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus) error {
	var ttl time.Duration
	if status.IsTerminal() {
		ttl = r.ttl
	}
	return r.client.Set(ctx, statusKey(auctionID), int(status), ttl).Err()
}

func (r *RedisStateCache) GetAuctionStatus(ctx context.Context, auctionID string) (domain.AuctionStatus, error) {
	result, err := r.client.Get(ctx, statusKey(auctionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AuctionDraft, domain.ErrAuctionNotFound
		}
		return domain.AuctionDraft, err
	}

	status, err := strconv.Atoi(result)
	if err != nil {
		return domain.AuctionDraft, err
	}

	return domain.AuctionStatus(status), nil
}
