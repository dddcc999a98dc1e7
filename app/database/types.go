package database

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// FeedItem is the persisted form of a feed item.
type FeedItem struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         *url.URL
}

// CachedFeed is the single cache snapshot: the full item list and the time it
// was written. A new snapshot always replaces the previous one.
type CachedFeed struct {
	Items     []FeedItem
	Timestamp time.Time
}

var ErrStoreClosed = errors.New("store is closed")

// StoreError wraps any persistence failure. Callers only distinguish success
// from failure; Op names the store operation for logs.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
