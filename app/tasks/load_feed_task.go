package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/neo-comb/app/dashboard"
)

// FeedLoader is the part of a dashboard a load task drives.
type FeedLoader interface {
	Owner() string
	Refresh(ctx context.Context) error
	LoadMore(ctx context.Context) error
	LoadRange(ctx context.Context, start, end string) error
}

var _ FeedLoader = (*dashboard.Dashboard)(nil)

type LoadFeedTask struct {
	Task
	loader     FeedLoader
	start, end string
}

func NewLoadFeedTask(taskType TaskType, loader FeedLoader) *LoadFeedTask {
	return &LoadFeedTask{
		Task:   NewTask(taskType, loader.Owner()),
		loader: loader,
	}
}

func NewLoadRangeTask(loader FeedLoader, start, end string) *LoadFeedTask {
	t := NewLoadFeedTask(TaskTypeLoadRange, loader)
	t.start = start
	t.end = end
	return t
}

func (t *LoadFeedTask) Execute(ctx context.Context) error {
	slog.Debug("Loading feed", "type", string(t.Type), "owner", t.Owner, "id", t.ID)

	var err error
	switch t.Type {
	case TaskTypeInitialLoad, TaskTypeRefresh:
		err = t.loader.Refresh(ctx)
	case TaskTypeLoadMore:
		err = t.loader.LoadMore(ctx)
	case TaskTypeLoadRange:
		err = t.loader.LoadRange(ctx, t.start, t.end)
	default:
		return fmt.Errorf("unknown load task type: %s", t.Type)
	}
	if err != nil {
		return fmt.Errorf("%s for %s: %w", t.Type, t.Owner, err)
	}

	slog.Debug("Feed loaded", "type", string(t.Type), "owner", t.Owner, "duration", t.GetDuration().String())
	return nil
}
