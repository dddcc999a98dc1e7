package composite

import (
	"net/url"

	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

var (
	_ feed.Loader          = (*FeedLoaderWithFallback)(nil)
	_ feed.ImageDataLoader = (*ImageDataLoaderWithFallback)(nil)
)

// FeedLoaderWithFallback tries primary and falls back to fallback only when
// primary fails. The fallback result, success or error, is delivered as is.
type FeedLoaderWithFallback struct {
	loader.Lifetime
	load loader.Source[[]feed.Item]
}

func NewFeedLoaderWithFallback(primary, fallback feed.Loader) *FeedLoaderWithFallback {
	return &FeedLoaderWithFallback{
		load: loader.WithFallback(feedSource(primary), feedSource(fallback)),
	}
}

func (l *FeedLoaderWithFallback) Load(completion func([]feed.Item, error)) {
	l.load(loader.Guard(&l.Lifetime, completion))
}

// ImageDataLoaderWithFallback is the image counterpart of
// FeedLoaderWithFallback. Cancelling the returned task cancels whichever
// loader is in flight and suppresses the result.
type ImageDataLoaderWithFallback struct {
	loader.Lifetime
	primary  feed.ImageDataLoader
	fallback feed.ImageDataLoader
}

func NewImageDataLoaderWithFallback(primary, fallback feed.ImageDataLoader) *ImageDataLoaderWithFallback {
	return &ImageDataLoaderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

func (l *ImageDataLoaderWithFallback) LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task {
	load := loader.WithFallback(imageSource(l.primary, u), imageSource(l.fallback, u))
	return load(loader.Guard(&l.Lifetime, completion))
}
