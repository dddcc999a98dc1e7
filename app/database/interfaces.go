package database

import (
	"net/url"
	"time"
)

// FeedStore persists the feed cache snapshot. Completions may run on any
// goroutine and at any time after the call returns.
type FeedStore interface {
	DeleteCachedFeed(completion func(error))
	InsertFeed(items []FeedItem, timestamp time.Time, completion func(error))
	// RetrieveFeed delivers nil when the cache is empty.
	RetrieveFeed(completion func(*CachedFeed, error))
}

// ImageDataStore persists image bytes keyed by URL, independently of the feed
// snapshot.
type ImageDataStore interface {
	InsertImageData(data []byte, u *url.URL, completion func(error))
	// RetrieveImageData delivers nil data when nothing is stored for u.
	RetrieveImageData(u *url.URL, completion func([]byte, error))
}
