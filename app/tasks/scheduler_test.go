package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/neo"
)

// MockLoader records which load operations a task invoked.
type MockLoader struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *MockLoader) Owner() string { return "tester" }

func (m *MockLoader) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.err
}

func (m *MockLoader) Refresh(ctx context.Context) error  { return m.record("refresh") }
func (m *MockLoader) LoadMore(ctx context.Context) error { return m.record("more") }
func (m *MockLoader) LoadRange(ctx context.Context, start, end string) error {
	return m.record("range " + start + " " + end)
}

func (m *MockLoader) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockFetcher serves an empty feed and counts calls.
type MockFetcher struct {
	mu    sync.Mutex
	count int
}

func (m *MockFetcher) FetchFeed(ctx context.Context, start, end string) (neo.DateMap, error) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	return neo.DateMap{start: {{ID: "x"}}}, nil
}

func (m *MockFetcher) FetchDetails(ctx context.Context, id string) (neo.Summary, error) {
	return neo.Summary{}, errors.New("not implemented")
}

func (m *MockFetcher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

type staticSource struct {
	dashboards []*dashboard.Dashboard
}

func (s staticSource) All() []*dashboard.Dashboard {
	return s.dashboards
}

func TestLoadFeedTaskDispatch(t *testing.T) {
	loader := &MockLoader{}
	ctx := context.Background()

	tasks := []*LoadFeedTask{
		NewLoadFeedTask(TaskTypeInitialLoad, loader),
		NewLoadFeedTask(TaskTypeRefresh, loader),
		NewLoadFeedTask(TaskTypeLoadMore, loader),
		NewLoadRangeTask(loader, "2024-01-01", "2024-01-05"),
	}
	for _, task := range tasks {
		if err := task.Execute(ctx); err != nil {
			t.Fatalf("Unexpected error for %s: %v", task.GetType(), err)
		}
	}

	expected := []string{"refresh", "refresh", "more", "range 2024-01-01 2024-01-05"}
	calls := loader.Calls()
	if len(calls) != len(expected) {
		t.Fatalf("Expected %d calls, got %v", len(expected), calls)
	}
	for i := range expected {
		if calls[i] != expected[i] {
			t.Errorf("Call %d: expected %q, got %q", i, expected[i], calls[i])
		}
	}
}

func TestLoadFeedTaskWrapsError(t *testing.T) {
	loader := &MockLoader{err: dashboard.ErrStaleResult}

	err := NewLoadFeedTask(TaskTypeRefresh, loader).Execute(context.Background())
	if !errors.Is(err, dashboard.ErrStaleResult) {
		t.Errorf("Expected wrapped stale error, got %v", err)
	}
}

func TestNewTaskUniqueIDs(t *testing.T) {
	a := NewTask(TaskTypeRefresh, "x")
	b := NewTask(TaskTypeRefresh, "x")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}
}

func TestSchedulerExecutesTasks(t *testing.T) {
	s := NewScheduler(staticSource{}, 0, 2, time.Second)
	s.Start()
	defer s.Stop()

	loader := &MockLoader{}
	if err := s.EnqueueTask(NewLoadFeedTask(TaskTypeLoadMore, loader)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for len(loader.Calls()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls := loader.Calls(); len(calls) != 1 || calls[0] != "more" {
		t.Errorf("Expected one load-more call, got %v", calls)
	}
}

func TestSchedulerPeriodicRefresh(t *testing.T) {
	fetcher := &MockFetcher{}
	d := dashboard.New("tester", fetcher, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	s := NewScheduler(staticSource{dashboards: []*dashboard.Dashboard{d}}, 20*time.Millisecond, 1, time.Second)
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for fetcher.Count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fetcher.Count() < 2 {
		t.Errorf("Expected periodic refreshes, got %d fetches", fetcher.Count())
	}
	if len(d.View().Items) != 1 {
		t.Errorf("Expected refreshed data on dashboard, got %d items", len(d.View().Items))
	}
}

func TestSchedulerQueueFull(t *testing.T) {
	s := NewScheduler(staticSource{}, 0, 1, time.Second)
	loader := &MockLoader{}

	for i := 0; i < queueSize; i++ {
		if err := s.EnqueueTask(NewLoadFeedTask(TaskTypeRefresh, loader)); err != nil {
			t.Fatalf("Unexpected error at %d: %v", i, err)
		}
	}

	if err := s.EnqueueTask(NewLoadFeedTask(TaskTypeRefresh, loader)); err == nil || err.Error() != "task queue is full" {
		t.Errorf("Expected queue full error, got %v", err)
	}
}

func TestSchedulerEnqueueAfterStop(t *testing.T) {
	s := NewScheduler(staticSource{}, 0, 1, time.Second)
	s.Start()
	s.Stop()

	if err := s.EnqueueTask(NewLoadFeedTask(TaskTypeRefresh, &MockLoader{})); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled after stop, got %v", err)
	}
}
