package tasks

import "github.com/lysyi3m/neo-comb/app/dashboard"

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Handlers enqueue feed loads through it so requests return before the
// upstream call completes.
// Example usage:
//
//	scheduler := NewScheduler(registry, interval, workers, timeout)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewLoadFeedTask(TaskTypeRefresh, d))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// DashboardSource lists the dashboards to refresh periodically.
type DashboardSource interface {
	All() []*dashboard.Dashboard
}
