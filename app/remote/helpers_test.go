package remote

import (
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

// HTTPClientSpy records requests and lets the test complete them later.
type HTTPClientSpy struct {
	mu           sync.Mutex
	requested    []*url.URL
	completions  []func(Response, error)
	cancelledURL []*url.URL
}

var _ Client = (*HTTPClientSpy)(nil)

func (c *HTTPClientSpy) Get(u *url.URL, completion func(Response, error)) loader.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requested = append(c.requested, u)
	c.completions = append(c.completions, completion)
	return loader.TaskFunc(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancelledURL = append(c.cancelledURL, u)
	})
}

func (c *HTTPClientSpy) complete(statusCode int, data []byte, index int) {
	c.completions[index](Response{StatusCode: statusCode, Data: data}, nil)
}

func (c *HTTPClientSpy) fail(err error, index int) {
	c.completions[index](Response{}, err)
}

var errAny = errors.New("any error")

func anyURL() *url.URL {
	u, _ := url.Parse("https://a-url.com/resource")
	return u
}

func makeItem(description, location *string, imageURL string) (feed.Item, map[string]any) {
	u, _ := url.Parse(imageURL)
	item := feed.Item{ID: uuid.New(), Description: description, Location: location, ImageURL: u}

	fields := map[string]any{
		"id":    item.ID.String(),
		"image": imageURL,
	}
	if description != nil {
		fields["description"] = *description
	}
	if location != nil {
		fields["location"] = *location
	}
	return item, fields
}

func makeItemsJSON(items ...map[string]any) []byte {
	data, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		panic(err)
	}
	return data
}

func stringPtr(s string) *string {
	return &s
}
