package composite

import (
	"log/slog"
	"net/url"

	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var (
	_ feed.Loader          = (*FeedLoaderCacheDecorator)(nil)
	_ feed.ImageDataLoader = (*ImageDataLoaderCacheDecorator)(nil)
)

// FeedLoaderCacheDecorator saves every successfully loaded feed to cache and
// delivers the loaded value. The decoratee is called once per Load; the save
// outcome is logged and otherwise ignored.
type FeedLoaderCacheDecorator struct {
	loader.Lifetime
	load loader.Source[[]feed.Item]
}

func NewFeedLoaderCacheDecorator(decoratee feed.Loader, cache feed.Cache) *FeedLoaderCacheDecorator {
	save := func(items []feed.Item) {
		cache.Save(items, func(err error) {
			if err != nil {
				slog.Warn("Failed to cache feed", "items", len(items), "error", err)
			}
		})
	}

	return &FeedLoaderCacheDecorator{
		load: loader.WithCacheWrite(feedSource(decoratee), save),
	}
}

func (d *FeedLoaderCacheDecorator) Load(completion func([]feed.Item, error)) {
	d.load(loader.Guard(&d.Lifetime, completion))
}

// ImageDataLoaderCacheDecorator saves successfully loaded image data under its
// URL. Cancelling the returned task is forwarded to the decoratee.
type ImageDataLoaderCacheDecorator struct {
	loader.Lifetime
	decoratee feed.ImageDataLoader
	cache     feed.ImageDataCache
}

func NewImageDataLoaderCacheDecorator(decoratee feed.ImageDataLoader, cache feed.ImageDataCache) *ImageDataLoaderCacheDecorator {
	return &ImageDataLoaderCacheDecorator{
		decoratee: decoratee,
		cache:     cache,
	}
}

func (d *ImageDataLoaderCacheDecorator) LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task {
	save := func(data []byte) {
		d.cache.SaveImageData(data, u, func(err error) {
			if err != nil {
				slog.Warn("Failed to cache image data", "url", u.Redacted(), "error", err)
			}
		})
	}

	load := loader.WithCacheWrite(imageSource(d.decoratee, u), save)
	return load(loader.Guard(&d.Lifetime, completion))
}
