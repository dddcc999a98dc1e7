package loader

// WithFallback returns a Source that runs primary and, only when primary fails,
// runs fallback and delivers its result verbatim. The primary error is never
// delivered once the fallback has been consulted.
//
// Cancelling the returned task cancels whichever of the two is in flight.
// Cancelling before primary completes means fallback is never started.
func WithFallback[T any](primary, fallback Source[T]) Source[T] {
	return func(completion func(T, error)) Task {
		delivery := NewDelivery(completion)
		task := &switchTask{onCancel: delivery.Cancel}

		task.setInitial(primary(func(value T, err error) {
			if err == nil {
				delivery.Deliver(value, nil)
				return
			}
			if task.isCancelled() {
				return
			}
			task.replace(fallback(delivery.Deliver))
		}))

		return task
	}
}

// WithCacheWrite returns a Source that hands every successful value to save
// before delivering that same value. save is fire-and-forget: whatever happens
// to the cache write never changes the delivered result.
func WithCacheWrite[T any](source Source[T], save func(T)) Source[T] {
	return func(completion func(T, error)) Task {
		return source(func(value T, err error) {
			if err == nil {
				save(value)
			}
			completion(value, err)
		})
	}
}
