package remote

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var _ feed.Loader = (*FeedLoader)(nil)

// FeedLoader fetches the feed list from a fixed URL.
type FeedLoader struct {
	loader.Lifetime
	url    *url.URL
	client Client
	mapper func(data []byte, statusCode int) ([]feed.Item, error)
}

// NewFeedLoader reads the JSON `{"items": [...]}` format.
func NewFeedLoader(u *url.URL, client Client) *FeedLoader {
	return &FeedLoader{
		url:    u,
		client: client,
		mapper: MapFeedItems,
	}
}

// NewSyndicationFeedLoader reads RSS, Atom or JSON Feed documents.
func NewSyndicationFeedLoader(u *url.URL, client Client, parser *feed.Parser) *FeedLoader {
	return &FeedLoader{
		url:    u,
		client: client,
		mapper: SyndicationMapper(parser),
	}
}

func (l *FeedLoader) Load(completion func([]feed.Item, error)) {
	completion = loader.Guard(&l.Lifetime, completion)

	l.client.Get(l.url, func(response Response, err error) {
		if err != nil {
			slog.Debug("Feed request failed", "url", l.url.Redacted(), "error", err)
			completion(nil, fmt.Errorf("%w: %w", ErrConnectivity, err))
			return
		}

		items, err := l.mapper(response.Data, response.StatusCode)
		if err != nil {
			slog.Debug("Feed response rejected", "url", l.url.Redacted(), "status", response.StatusCode, "bytes", len(response.Data))
			completion(nil, err)
			return
		}

		completion(items, nil)
	})
}
