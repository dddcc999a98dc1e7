package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feed-cache/app/feed"
)

// RefreshFeedTask loads the feed through the composed loader so that a
// successful remote load rewrites the local cache.
type RefreshFeedTask struct {
	Task
	feedLoader feed.Loader
}

func NewRefreshFeedTask(feedLoader feed.Loader) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:       NewTask(TaskTypeRefreshFeed),
		feedLoader: feedLoader,
	}
}

type loadResult struct {
	items []feed.Item
	err   error
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	done := make(chan loadResult, 1)
	t.feedLoader.Load(func(items []feed.Item, err error) {
		done <- loadResult{items, err}
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-done:
		if result.err != nil {
			return fmt.Errorf("failed to load feed: %w", result.err)
		}

		slog.Info("Task completed",
			"type", t.GetType(),
			"duration", t.GetDuration(),
			"items", len(result.items))

		return nil
	}
}
