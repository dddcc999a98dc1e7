package local

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var (
	ErrImageNotFound   = errors.New("image data not found")
	ErrImageLoadFailed = errors.New("failed to load image data")
	ErrImageSaveFailed = errors.New("failed to save image data")
)

var (
	_ feed.ImageDataLoader = (*ImageDataLoader)(nil)
	_ feed.ImageDataCache  = (*ImageDataLoader)(nil)
)

// ImageDataLoader reads and writes image bytes through an ImageDataStore.
type ImageDataLoader struct {
	loader.Lifetime
	store database.ImageDataStore
}

func NewImageDataLoader(store database.ImageDataStore) *ImageDataLoader {
	return &ImageDataLoader{store: store}
}

// LoadImageData returns a task whose Cancel drops the pending result; the
// store read itself still runs to completion.
func (l *ImageDataLoader) LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task {
	delivery := loader.NewDelivery(loader.Guard(&l.Lifetime, completion))

	l.store.RetrieveImageData(u, func(data []byte, err error) {
		switch {
		case err != nil:
			delivery.Deliver(nil, fmt.Errorf("%w: %w", ErrImageLoadFailed, err))
		case data == nil:
			delivery.Deliver(nil, ErrImageNotFound)
		default:
			delivery.Deliver(data, nil)
		}
	})

	return delivery
}

func (l *ImageDataLoader) SaveImageData(data []byte, u *url.URL, completion func(error)) {
	completion = loader.GuardErr(&l.Lifetime, completion)

	l.store.InsertImageData(data, u, func(err error) {
		if err != nil {
			completion(fmt.Errorf("%w: %w", ErrImageSaveFailed, err))
			return
		}
		completion(nil)
	})
}
