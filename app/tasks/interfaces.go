package tasks

// TaskSchedulerInterface is what the application and the API use to run
// background work: refreshing the feed and validating the local cache.
//
//	scheduler := NewScheduler(feedLoader, localFeedLoader, refresh, validate, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewValidateCacheTask(localFeedLoader))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// CacheValidator purges an unreadable or expired feed cache.
type CacheValidator interface {
	ValidateCache(completion func(error))
}
