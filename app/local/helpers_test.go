package local

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/lysyi3m/feed-cache/app/feed"
)

type storeMessage string

const (
	msgDeleteCachedFeed storeMessage = "delete"
	msgInsertFeed       storeMessage = "insert"
	msgRetrieveFeed     storeMessage = "retrieve"
	msgInsertImageData  storeMessage = "insert image"
	msgRetrieveImage    storeMessage = "retrieve image"
)

// FeedStoreSpy records store messages and holds completions until the test
// completes them explicitly.
type FeedStoreSpy struct {
	mu                  sync.Mutex
	messages            []storeMessage
	insertedItems       [][]database.FeedItem
	insertedTimestamps  []time.Time
	deletionCompletions []func(error)
	insertCompletions   []func(error)
	retrieveCompletions []func(*database.CachedFeed, error)
}

var _ database.FeedStore = (*FeedStoreSpy)(nil)

func (s *FeedStoreSpy) DeleteCachedFeed(completion func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgDeleteCachedFeed)
	s.deletionCompletions = append(s.deletionCompletions, completion)
}

func (s *FeedStoreSpy) InsertFeed(items []database.FeedItem, timestamp time.Time, completion func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgInsertFeed)
	s.insertedItems = append(s.insertedItems, items)
	s.insertedTimestamps = append(s.insertedTimestamps, timestamp)
	s.insertCompletions = append(s.insertCompletions, completion)
}

func (s *FeedStoreSpy) RetrieveFeed(completion func(*database.CachedFeed, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgRetrieveFeed)
	s.retrieveCompletions = append(s.retrieveCompletions, completion)
}

func (s *FeedStoreSpy) Messages() []storeMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storeMessage(nil), s.messages...)
}

func (s *FeedStoreSpy) CompleteDeletion(err error, index int) {
	s.deletionCompletions[index](err)
}

func (s *FeedStoreSpy) CompleteInsertion(err error, index int) {
	s.insertCompletions[index](err)
}

func (s *FeedStoreSpy) CompleteRetrieval(cached *database.CachedFeed, err error, index int) {
	s.retrieveCompletions[index](cached, err)
}

// ImageDataStoreSpy is the image counterpart of FeedStoreSpy.
type ImageDataStoreSpy struct {
	messages            []storeMessage
	urls                []*url.URL
	insertedData        [][]byte
	insertCompletions   []func(error)
	retrieveCompletions []func([]byte, error)
}

var _ database.ImageDataStore = (*ImageDataStoreSpy)(nil)

func (s *ImageDataStoreSpy) InsertImageData(data []byte, u *url.URL, completion func(error)) {
	s.messages = append(s.messages, msgInsertImageData)
	s.urls = append(s.urls, u)
	s.insertedData = append(s.insertedData, data)
	s.insertCompletions = append(s.insertCompletions, completion)
}

func (s *ImageDataStoreSpy) RetrieveImageData(u *url.URL, completion func([]byte, error)) {
	s.messages = append(s.messages, msgRetrieveImage)
	s.urls = append(s.urls, u)
	s.retrieveCompletions = append(s.retrieveCompletions, completion)
}

var errAny = errors.New("any error")

func anyURL() *url.URL {
	u, _ := url.Parse("https://any-url.com/image.png")
	return u
}

func uniqueItem() feed.Item {
	description := "any"
	location := "any"
	return feed.Item{ID: uuid.New(), Description: &description, Location: &location, ImageURL: anyURL()}
}

func uniqueItems() ([]feed.Item, []database.FeedItem) {
	models := []feed.Item{uniqueItem(), uniqueItem()}
	return models, toLocal(models)
}

// fixedClock returns a currentTime func pinned to now.
func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func minusFeedCacheMaxAge(t time.Time) time.Time {
	return t.AddDate(0, 0, -maxCacheAgeInDays)
}
