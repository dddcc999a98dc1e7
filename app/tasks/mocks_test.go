package tasks

import (
	"sync"

	"github.com/lysyi3m/feed-cache/app/feed"
)

// MockFeedLoader completes every load with items/err unless hang is set.
type MockFeedLoader struct {
	mu     sync.Mutex
	items  []feed.Item
	err    error
	hang   bool
	calls  int
	events chan string
}

func (m *MockFeedLoader) Load(completion func([]feed.Item, error)) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.events != nil {
		m.events <- "refresh"
	}
	if m.hang {
		return
	}
	completion(m.items, m.err)
}

func (m *MockFeedLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCacheValidator completes every validation with err unless hang is set.
type MockCacheValidator struct {
	mu     sync.Mutex
	err    error
	hang   bool
	calls  int
	events chan string
}

func (m *MockCacheValidator) ValidateCache(completion func(error)) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.events != nil {
		m.events <- "validate"
	}
	if m.hang {
		return
	}
	completion(m.err)
}

func (m *MockCacheValidator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
