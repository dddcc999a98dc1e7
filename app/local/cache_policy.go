package local

import "time"

const maxCacheAgeInDays = 7

// isCacheValid reports whether a snapshot written at timestamp is still fresh
// at now. A snapshot exactly maxCacheAgeInDays old is already stale.
func isCacheValid(timestamp, now time.Time) bool {
	maxCacheAge := timestamp.AddDate(0, 0, maxCacheAgeInDays)
	return now.Before(maxCacheAge)
}
