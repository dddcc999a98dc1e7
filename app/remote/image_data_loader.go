package remote

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var _ feed.ImageDataLoader = (*ImageDataLoader)(nil)

// ImageDataLoader fetches raw image bytes.
type ImageDataLoader struct {
	loader.Lifetime
	client Client
}

func NewImageDataLoader(client Client) *ImageDataLoader {
	return &ImageDataLoader{client: client}
}

// LoadImageData accepts only a 200 response with a non-empty body. Cancelling
// the returned task cancels the HTTP request and drops its result.
func (l *ImageDataLoader) LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task {
	delivery := loader.NewDelivery(loader.Guard(&l.Lifetime, completion))

	httpTask := l.client.Get(u, func(response Response, err error) {
		switch {
		case err != nil:
			slog.Debug("Image request failed", "url", u.Redacted(), "error", err)
			delivery.Deliver(nil, fmt.Errorf("%w: %w", ErrConnectivity, err))
		case response.StatusCode != http.StatusOK || len(response.Data) == 0:
			delivery.Deliver(nil, ErrInvalidData)
		default:
			delivery.Deliver(response.Data, nil)
		}
	})

	return loader.TaskFunc(func() {
		delivery.Cancel()
		httpTask.Cancel()
	})
}
