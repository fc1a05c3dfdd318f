package cache

import (
	"context"
	"testing"
	"time"

	"folio/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (Storage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisStorage(rdb, time.Minute), mr
}

func TestListingCacheMissReturnsNil(t *testing.T) {
	storage, _ := newTestStorage(t)

	reviews, err := storage.Listing.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reviews)
}

func TestListingCacheRoundTrip(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	avatar := "https://cdn.example.com/avatars/review_7.png"
	want := []store.Review{
		{ID: 7, Name: "Ada", Rating: 5, Message: "Great work", Likes: 3, Approved: true, AvatarURL: &avatar},
		{ID: 3, Name: "Grace", Rating: 4, Message: "Solid", Approved: true},
	}

	require.NoError(t, storage.Listing.Set(ctx, want))

	got, err := storage.Listing.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "Ada", got[0].Name)
	assert.Equal(t, 3, got[0].Likes)
	require.NotNil(t, got[0].AvatarURL)
	assert.Equal(t, avatar, *got[0].AvatarURL)
}

func TestListingCacheInvalidate(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Listing.Set(ctx, []store.Review{{ID: 1, Approved: true}}))
	require.NoError(t, storage.Listing.Invalidate(ctx))

	got, err := storage.Listing.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCacheExpires(t *testing.T) {
	storage, mr := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Listing.Set(ctx, []store.Review{{ID: 1, Approved: true}}))

	mr.FastForward(2 * time.Minute)

	got, err := storage.Listing.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
