package api

import (
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/tasks"
)

type GeneratorInterface interface {
	Run(items []feed.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	feedLoader  feed.Loader
	imageLoader feed.ImageDataLoader
	validator   tasks.CacheValidator
	scheduler   tasks.TaskSchedulerInterface
	generator   GeneratorInterface
}

type feedItemResponse struct {
	ID          string  `json:"id"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Image       string  `json:"image"`
}

type feedResponse struct {
	Items []feedItemResponse `json:"items"`
}
