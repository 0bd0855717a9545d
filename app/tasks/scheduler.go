package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/neo-comb/app/dashboard"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	queueSize          = 300
	DefaultTaskTimeout = 2 * time.Minute
)

type Scheduler struct {
	dashboards  DashboardSource
	interval    time.Duration
	workerCount int
	taskTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

// NewScheduler creates a worker pool. A zero interval disables periodic
// refresh of registered dashboards.
func NewScheduler(dashboards DashboardSource, interval time.Duration, workerCount int, taskTimeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}

	return &Scheduler{
		dashboards:  dashboards,
		interval:    interval,
		workerCount: workerCount,
		taskTimeout: taskTimeout,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		slog.Debug("Periodic refresh disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefreshTasks()
			}
		}
	}()
}

// Stop cancels in-flight tasks and waits for workers to exit. The queue is
// left open so late EnqueueTask calls fail instead of panicking.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
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

func (s *Scheduler) enqueueRefreshTasks() {
	dashboards := s.dashboards.All()
	if len(dashboards) == 0 {
		slog.Debug("No dashboards to refresh")
		return
	}

	slog.Debug("Scheduling dashboard refresh", "count", len(dashboards))

	for _, d := range dashboards {
		if err := s.EnqueueTask(NewLoadFeedTask(TaskTypeRefresh, d)); err != nil {
			slog.Warn("Failed to enqueue refresh task", "owner", d.Owner(), "error", err)
		}
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

// executeTask runs a task once. Feed loads are single-attempt; failures are
// already recorded on the dashboard for the user to see.
func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrStaleResult):
		slog.Debug("Task result superseded", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "owner", task.GetOwner())
	default:
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "owner", task.GetOwner(), "duration", task.GetDuration().String(), "error", err)
	}
}
