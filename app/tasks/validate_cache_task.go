package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type ValidateCacheTask struct {
	Task
	validator CacheValidator
}

func NewValidateCacheTask(validator CacheValidator) *ValidateCacheTask {
	return &ValidateCacheTask{
		Task:      NewTask(TaskTypeValidateCache),
		validator: validator,
	}
}

func (t *ValidateCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	done := make(chan error, 1)
	t.validator.ValidateCache(func(err error) {
		done <- err
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to validate feed cache: %w", err)
		}

		slog.Info("Task completed",
			"type", t.GetType(),
			"duration", t.GetDuration())

		return nil
	}
}
