package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"folio/internal/store"

	"github.com/redis/go-redis/v9"
)

const listingKey = "reviews:listing"

type ListingStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// Get returns (nil, nil) on a cache miss.
func (s *ListingStore) Get(ctx context.Context) ([]store.Review, error) {
	data, err := s.rdb.Get(ctx, listingKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var reviews []store.Review
	if err := json.Unmarshal([]byte(data), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ListingStore) Set(ctx context.Context, reviews []store.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, listingKey, data, s.ttl).Err()
}

func (s *ListingStore) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, listingKey).Err()
}
