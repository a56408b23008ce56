package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
)

// NewRedisClient connects to Redis or returns nil when the server is not
// reachable; callers degrade by serving reads straight from Postgres.
func NewRedisClient(cfg config.Redis) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

// AuctionCache is a read-through cache for single-auction lookups and
// listings. Listings are keyed under a namespace version; bumping the
// version on any write invalidates every cached listing without scanning.
type AuctionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAuctionCache(rdb *redis.Client, ttl time.Duration) *AuctionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AuctionCache{rdb: rdb, ttl: ttl}
}

func (c *AuctionCache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *AuctionCache) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, "auction:"+auctionID).Bytes()
	if err != nil {
		return nil, false
	}
	var auction domain.Auction
	if err := json.Unmarshal(raw, &auction); err != nil {
		return nil, false
	}
	return &auction, true
}

func (c *AuctionCache) SetAuction(ctx context.Context, auction *domain.Auction) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(auction)
	if err != nil {
		return
	}
	_ = c.rdb.SetEx(ctx, "auction:"+auction.ID, raw, c.ttl).Err()
}

// InvalidateAuction drops the single-auction entry and bumps the listing
// namespace so stale listings age out immediately.
func (c *AuctionCache) InvalidateAuction(ctx context.Context, auctionID string) {
	if !c.Enabled() {
		return
	}
	_ = c.rdb.Del(ctx, "auction:"+auctionID).Err()
	_ = c.rdb.Incr(ctx, "auctions:list:ver").Err()
}

func (c *AuctionCache) listKey(ctx context.Context, fingerprint string) (string, error) {
	ver, err := c.rdb.Get(ctx, "auctions:list:ver").Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("auctions:list:%d:%s", ver, fingerprint), nil
}

func (c *AuctionCache) GetListing(ctx context.Context, fingerprint string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key, err := c.listKey(ctx, fingerprint)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *AuctionCache) SetListing(ctx context.Context, fingerprint string, payload []byte) {
	if !c.Enabled() {
		return
	}
	key, err := c.listKey(ctx, fingerprint)
	if err != nil {
		return
	}
	_ = c.rdb.SetEx(ctx, key, payload, c.ttl).Err()
}
