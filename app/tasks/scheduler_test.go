package tasks

import (
	"testing"
	"time"
)

func waitForEvent(t *testing.T, events <-chan string) string {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for scheduler event")
		return ""
	}
}

func TestNewScheduler(t *testing.T) {
	scheduler := NewScheduler(&MockFeedLoader{}, &MockCacheValidator{}, time.Minute, time.Hour, 0).(*Scheduler)

	if scheduler.workerCount != 1 {
		t.Errorf("Expected worker count to be clamped to 1, got %d", scheduler.workerCount)
	}

	if scheduler.refreshInterval != time.Minute {
		t.Errorf("Expected refresh interval 1m, got %v", scheduler.refreshInterval)
	}

	if scheduler.validateInterval != time.Hour {
		t.Errorf("Expected validate interval 1h, got %v", scheduler.validateInterval)
	}
}

func TestSchedulerRunsValidateThenRefreshAtStartup(t *testing.T) {
	events := make(chan string, 10)
	loader := &MockFeedLoader{events: events}
	validator := &MockCacheValidator{events: events}

	scheduler := NewScheduler(loader, validator, time.Hour, time.Hour, 1)
	scheduler.Start()
	defer scheduler.Stop()

	if first := waitForEvent(t, events); first != "validate" {
		t.Errorf("Expected validate first, got %s", first)
	}
	if second := waitForEvent(t, events); second != "refresh" {
		t.Errorf("Expected refresh second, got %s", second)
	}
}

func TestSchedulerRunsBothStartupTasksWithSeveralWorkers(t *testing.T) {
	events := make(chan string, 10)
	loader := &MockFeedLoader{events: events}
	validator := &MockCacheValidator{events: events}

	scheduler := NewScheduler(loader, validator, time.Hour, time.Hour, 2)
	scheduler.Start()
	defer scheduler.Stop()

	seen := map[string]bool{}
	seen[waitForEvent(t, events)] = true
	seen[waitForEvent(t, events)] = true

	if !seen["validate"] || !seen["refresh"] {
		t.Errorf("Expected validate and refresh at startup, got %v", seen)
	}
}

func TestSchedulerRefreshesPeriodically(t *testing.T) {
	events := make(chan string, 100)
	loader := &MockFeedLoader{events: events}

	scheduler := NewScheduler(loader, &MockCacheValidator{}, 10*time.Millisecond, 0, 2)
	scheduler.Start()

	refreshes := 0
	for refreshes < 3 {
		if waitForEvent(t, events) == "refresh" {
			refreshes++
		}
	}

	scheduler.Stop()
}

func TestSchedulerValidatesPeriodically(t *testing.T) {
	events := make(chan string, 100)
	validator := &MockCacheValidator{events: events}

	scheduler := NewScheduler(&MockFeedLoader{}, validator, 0, 10*time.Millisecond, 2)
	scheduler.Start()

	validations := 0
	for validations < 3 {
		if waitForEvent(t, events) == "validate" {
			validations++
		}
	}

	scheduler.Stop()
}

func TestSchedulerEnqueueTask(t *testing.T) {
	t.Run("queue full", func(t *testing.T) {
		scheduler := NewScheduler(&MockFeedLoader{}, &MockCacheValidator{}, 0, 0, 1).(*Scheduler)

		for i := 0; i < cap(scheduler.taskQueue); i++ {
			if err := scheduler.EnqueueTask(NewRefreshFeedTask(scheduler.feedLoader)); err != nil {
				t.Fatalf("Unexpected enqueue error at %d: %v", i, err)
			}
		}

		if err := scheduler.EnqueueTask(NewRefreshFeedTask(scheduler.feedLoader)); err == nil {
			t.Error("Expected error when queue is full")
		}
	})

	t.Run("after stop", func(t *testing.T) {
		scheduler := NewScheduler(&MockFeedLoader{}, &MockCacheValidator{}, 0, 0, 1)
		scheduler.Start()
		scheduler.Stop()

		if err := scheduler.EnqueueTask(NewValidateCacheTask(&MockCacheValidator{})); err == nil {
			t.Error("Expected error when enqueueing after stop")
		}
	})

	t.Run("runs enqueued task", func(t *testing.T) {
		events := make(chan string, 10)
		validator := &MockCacheValidator{events: events}
		scheduler := NewScheduler(&MockFeedLoader{}, validator, 0, 0, 1)
		scheduler.Start()
		defer scheduler.Stop()

		// startup validation
		waitForEvent(t, events)

		if err := scheduler.EnqueueTask(NewValidateCacheTask(validator)); err != nil {
			t.Fatalf("Unexpected enqueue error: %v", err)
		}
		if event := waitForEvent(t, events); event != "validate" {
			t.Errorf("Expected validate, got %s", event)
		}
	})
}
