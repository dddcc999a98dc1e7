package loader

import "sync"

// Task is a handle to one in-flight load. Cancel is a disposal token: it stops
// delivery to the caller and is forwarded to the underlying operation when that
// operation supports it.
type Task interface {
	Cancel()
}

type TaskFunc func()

func (f TaskFunc) Cancel() {
	f()
}

type nopTask struct{}

func (nopTask) Cancel() {}

// NopTask is returned by loads that cannot be cancelled individually, such as
// feed list loads.
var NopTask Task = nopTask{}

// Source starts one load and delivers its outcome to completion.
type Source[T any] func(completion func(T, error)) Task

// switchTask forwards Cancel to whichever underlying task is currently active.
type switchTask struct {
	mu        sync.Mutex
	current   Task
	cancelled bool
	onCancel  func()
}

func (t *switchTask) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	current := t.current
	onCancel := t.onCancel
	t.mu.Unlock()

	if onCancel != nil {
		onCancel()
	}
	if current != nil {
		current.Cancel()
	}
}

func (t *switchTask) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// setInitial records the first task unless a later one already replaced it
// (a source may complete synchronously and start its successor before returning).
func (t *switchTask) setInitial(task Task) {
	t.mu.Lock()
	if t.current == nil {
		t.current = task
	}
	cancelled := t.cancelled
	t.mu.Unlock()

	if cancelled {
		task.Cancel()
	}
}

func (t *switchTask) replace(task Task) {
	t.mu.Lock()
	t.current = task
	cancelled := t.cancelled
	t.mu.Unlock()

	if cancelled {
		task.Cancel()
	}
}
