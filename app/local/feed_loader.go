package local

import (
	"log/slog"
	"time"

	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var (
	_ feed.Loader = (*FeedLoader)(nil)
	_ feed.Cache  = (*FeedLoader)(nil)
)

// FeedLoader reads and writes the feed cache snapshot through a FeedStore.
type FeedLoader struct {
	loader.Lifetime
	store       database.FeedStore
	currentTime func() time.Time
}

func NewFeedLoader(store database.FeedStore, currentTime func() time.Time) *FeedLoader {
	return &FeedLoader{
		store:       store,
		currentTime: currentTime,
	}
}

// Save replaces the cache with items. The old snapshot is deleted first; insert
// only runs if the delete succeeded. A failed insert leaves the cache empty.
func (l *FeedLoader) Save(items []feed.Item, completion func(error)) {
	completion = loader.GuardErr(&l.Lifetime, completion)

	l.store.DeleteCachedFeed(func(err error) {
		if err != nil {
			completion(err)
			return
		}
		l.store.InsertFeed(toLocal(items), l.currentTime(), completion)
	})
}

// Load delivers the cached items when the snapshot is still valid, and an
// empty feed when it is stale or missing. It never deletes anything.
func (l *FeedLoader) Load(completion func([]feed.Item, error)) {
	completion = loader.Guard(&l.Lifetime, completion)

	l.store.RetrieveFeed(func(cached *database.CachedFeed, err error) {
		switch {
		case err != nil:
			completion(nil, err)
		case cached != nil && isCacheValid(cached.Timestamp, l.currentTime()):
			completion(toModels(cached.Items), nil)
		default:
			completion([]feed.Item{}, nil)
		}
	})
}

// ValidateCache purges the snapshot when it cannot be read or has expired.
// completion receives the delete error when a delete was attempted, nil
// otherwise.
func (l *FeedLoader) ValidateCache(completion func(error)) {
	completion = loader.GuardErr(&l.Lifetime, completion)

	l.store.RetrieveFeed(func(cached *database.CachedFeed, err error) {
		switch {
		case err != nil:
			slog.Warn("Failed to read feed cache, deleting it", "error", err)
			l.store.DeleteCachedFeed(completion)
		case cached != nil && !isCacheValid(cached.Timestamp, l.currentTime()):
			slog.Debug("Feed cache expired, deleting it", "timestamp", cached.Timestamp)
			l.store.DeleteCachedFeed(completion)
		default:
			completion(nil)
		}
	})
}
