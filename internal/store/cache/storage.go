package cache

import (
	"context"
	"time"

	"folio/internal/store"

	"github.com/redis/go-redis/v9"
)

// Storage caches the public review listing. Any write that can change what
// the widget renders must call Invalidate.
type Storage struct {
	Listing interface {
		Get(context.Context) ([]store.Review, error)
		Set(context.Context, []store.Review) error
		Invalidate(context.Context) error
	}
}

func NewRedisStorage(rdb *redis.Client, ttl time.Duration) Storage {
	return Storage{
		Listing: &ListingStore{rdb: rdb, ttl: ttl},
	}
}

func NewRedisClient(addr, pw string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pw,
		DB:       db,
	})
}
