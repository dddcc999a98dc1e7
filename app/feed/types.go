package feed

import (
	"net/url"

	"github.com/google/uuid"
	"github.com/lysyi3m/feed-cache/app/loader"
)

// Item is a single feed entry. Items are immutable once created; identity is ID.
type Item struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	ImageURL    *url.URL
}

// Loader loads the feed list. Feed list loads are not individually
// cancellable; only image data loads hand back a task.
type Loader interface {
	Load(completion func([]Item, error))
}

// Cache persists a feed list as the new cache snapshot.
type Cache interface {
	Save(items []Item, completion func(error))
}

// ImageDataLoader loads the image bytes referenced by an Item.
type ImageDataLoader interface {
	LoadImageData(u *url.URL, completion func([]byte, error)) loader.Task
}

// ImageDataCache stores image bytes under their URL.
type ImageDataCache interface {
	SaveImageData(data []byte, u *url.URL, completion func(error))
}
