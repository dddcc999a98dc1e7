package local

import (
	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/lysyi3m/feed-cache/app/feed"
)

func toLocal(items []feed.Item) []database.FeedItem {
	local := make([]database.FeedItem, 0, len(items))
	for _, item := range items {
		local = append(local, database.FeedItem{
			ID:          item.ID,
			Description: item.Description,
			Location:    item.Location,
			URL:         item.ImageURL,
		})
	}
	return local
}

func toModels(items []database.FeedItem) []feed.Item {
	models := make([]feed.Item, 0, len(items))
	for _, item := range items {
		models = append(models, feed.Item{
			ID:          item.ID,
			Description: item.Description,
			Location:    item.Location,
			ImageURL:    item.URL,
		})
	}
	return models
}
