package composite

import (
	"errors"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var errAny = errors.New("any error")

func anyURL() *url.URL {
	u, _ := url.Parse("https://a-url.com/image.png")
	return u
}

func uniqueFeed() []feed.Item {
	description := "a description"
	return []feed.Item{{ID: uuid.New(), Description: &description, ImageURL: anyURL()}}
}

// FeedLoaderStub completes synchronously with a fixed result and counts calls.
type FeedLoaderStub struct {
	items []feed.Item
	err   error
	calls int
}

func (s *FeedLoaderStub) Load(completion func([]feed.Item, error)) {
	s.calls++
	completion(s.items, s.err)
}

// FeedCacheSpy records saved feeds.
type FeedCacheSpy struct {
	saved [][]feed.Item
	err   error
}

func (s *FeedCacheSpy) Save(items []feed.Item, completion func(error)) {
	s.saved = append(s.saved, items)
	completion(s.err)
}

// ImageDataLoaderSpy holds completions until the test completes them.
type ImageDataLoaderSpy struct {
	mu           sync.Mutex
	loadedURLs   []*url.URL
	completions  []func([]byte, error)
	cancelledURL []*url.URL
}

func (s *ImageDataLoaderSpy) LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedURLs = append(s.loadedURLs, u)
	s.completions = append(s.completions, completion)
	return loader.TaskFunc(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cancelledURL = append(s.cancelledURL, u)
	})
}

func (s *ImageDataLoaderSpy) complete(data []byte, err error, index int) {
	s.completions[index](data, err)
}

// ImageDataCacheSpy records saved image data.
type ImageDataCacheSpy struct {
	savedData [][]byte
	savedURLs []*url.URL
	err       error
}

func (s *ImageDataCacheSpy) SaveImageData(data []byte, u *url.URL, completion func(error)) {
	s.savedData = append(s.savedData, data)
	s.savedURLs = append(s.savedURLs, u)
	completion(s.err)
}

type imageResult struct {
	data  []byte
	err   error
	calls int
}

func (r *imageResult) completion(data []byte, err error) {
	r.calls++
	r.data, r.err = data, err
}
