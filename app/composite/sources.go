package composite

import (
	"net/url"

	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/loader"
)

func feedSource(l feed.Loader) loader.Source[[]feed.Item] {
	return func(completion func([]feed.Item, error)) loader.Task {
		l.Load(completion)
		return loader.NopTask
	}
}

func imageSource(l feed.ImageDataLoader, u *url.URL) loader.Source[[]byte] {
	return func(completion func([]byte, error)) loader.Task {
		return l.LoadImageData(u, completion)
	}
}
