package remote

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/lysyi3m/feed-cache/app/feed"
)

type remoteFeedItem struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       string  `json:"image"`
}

type remoteFeed struct {
	Items *[]remoteFeedItem `json:"items"`
}

// MapFeedItems decodes the `{"items": [...]}` wire format. Anything other than
// a 200 response carrying that shape is ErrInvalidData. Text fields are kept
// as sent; only syndication documents are normalized.
func MapFeedItems(data []byte, statusCode int) ([]feed.Item, error) {
	if statusCode != http.StatusOK {
		return nil, ErrInvalidData
	}

	var root remoteFeed
	if err := json.Unmarshal(data, &root); err != nil || root.Items == nil {
		return nil, ErrInvalidData
	}

	items := make([]feed.Item, 0, len(*root.Items))
	for _, remote := range *root.Items {
		id, err := uuid.Parse(remote.ID)
		if err != nil {
			return nil, ErrInvalidData
		}
		imageURL, err := url.Parse(remote.Image)
		if err != nil || imageURL.Scheme == "" || imageURL.Host == "" {
			return nil, ErrInvalidData
		}

		items = append(items, feed.Item{
			ID:          id,
			Description: remote.Description,
			Location:    remote.Location,
			ImageURL:    imageURL,
		})
	}

	return items, nil
}

// SyndicationMapper returns a mapper that reads RSS, Atom or JSON Feed
// documents through parser.
func SyndicationMapper(parser *feed.Parser) func([]byte, int) ([]feed.Item, error) {
	return func(data []byte, statusCode int) ([]feed.Item, error) {
		if statusCode != http.StatusOK {
			return nil, ErrInvalidData
		}
		items, err := parser.Run(data)
		if err != nil {
			return nil, ErrInvalidData
		}
		return items, nil
	}
}
