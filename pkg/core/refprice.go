package core

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RefPriceStore publishes each instrument's last traded price to redis so
// market-data consumers and the pre-open reference price loader share one
// source.
type RefPriceStore struct {
	client *redis.Client
	prefix string
}

func NewRefPriceStore(client *redis.Client, prefix string) *RefPriceStore {
	if prefix == "" {
		prefix = "refprice"
	}
	return &RefPriceStore{client: client, prefix: prefix}
}

func (s *RefPriceStore) key(isin string) string {
	return fmt.Sprintf("%s:%s", s.prefix, isin)
}

func (s *RefPriceStore) Set(ctx context.Context, isin string, price int64) error {
	return s.client.Set(ctx, s.key(isin), price, 0).Err()
}

func (s *RefPriceStore) Get(ctx context.Context, isin string) (int64, error) {
	return s.client.Get(ctx, s.key(isin)).Int64()
}
