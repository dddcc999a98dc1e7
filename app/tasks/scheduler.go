package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/feed-cache/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	feedLoader       feed.Loader
	validator        CacheValidator
	refreshInterval  time.Duration
	validateInterval time.Duration
	workerCount      int
	taskTimeout      time.Duration
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

// NewScheduler creates a scheduler that refreshes the feed every
// refreshInterval and validates the cache every validateInterval. A
// non-positive interval disables the periodic task; both still run once at
// startup.
func NewScheduler(feedLoader feed.Loader, validator CacheValidator,
	refreshInterval, validateInterval time.Duration, workerCount int) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		feedLoader:       feedLoader,
		validator:        validator,
		refreshInterval:  refreshInterval,
		validateInterval: validateInterval,
		workerCount:      workerCount,
		taskTimeout:      5 * time.Minute,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		refresh, stopRefresh := tick(s.refreshInterval)
		defer stopRefresh()
		validate, stopValidate := tick(s.validateInterval)
		defer stopValidate()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-refresh:
				s.enqueue(NewRefreshFeedTask(s.feedLoader))
			case <-validate:
				s.enqueue(NewValidateCacheTask(s.validator))
			}
		}
	}()
}

// Stop cancels running tasks and waits for every worker to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Startup purges an expired snapshot and warms the cache. The two tasks may run
// concurrently; the local loader never serves an expired snapshot either way.
func (s *Scheduler) enqueueStartupTasks() {
	s.enqueue(NewValidateCacheTask(s.validator))
	s.enqueue(NewRefreshFeedTask(s.feedLoader))
}

func (s *Scheduler) enqueue(task TaskInterface) {
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue task", "type", string(task.GetType()), "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}

// tick returns a nil channel, which never fires, for a non-positive interval.
func tick(interval time.Duration) (<-chan time.Time, func()) {
	if interval <= 0 {
		return nil, func() {}
	}
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}
