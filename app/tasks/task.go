package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeInitialLoad TaskType = "initial_load"
	TaskTypeRefresh     TaskType = "refresh"
	TaskTypeLoadMore    TaskType = "load_more"
	TaskTypeLoadRange   TaskType = "load_range"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetOwner() string
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	Owner     string
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetOwner() string {
	return t.Owner
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, owner string) Task {
	return Task{
		ID:    uuid.NewString(),
		Type:  taskType,
		Owner: owner,
	}
}
