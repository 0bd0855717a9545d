// Package dashboard holds the per-user state of the NEO dashboard: the loaded
// feed, the date window it covers, the active filters, the selection, the
// current error and a load generation counter that discards stale results.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/neo-comb/app/compare"
	"github.com/lysyi3m/neo-comb/app/metrics"
	"github.com/lysyi3m/neo-comb/app/neo"
	"github.com/lysyi3m/neo-comb/app/validate"
)

const (
	// windowDays is the widest span the feed endpoint accepts per request.
	windowDays = 7
	// maxLoadDays bounds an explicit load request.
	maxLoadDays = 31

	subscriberBuffer = 16
)

var (
	ErrStaleResult = errors.New("result superseded by a newer load")
	ErrNotFound    = errors.New("near-Earth object not found")
)

type Fetcher interface {
	FetchFeed(ctx context.Context, start, end string) (neo.DateMap, error)
	FetchDetails(ctx context.Context, id string) (neo.Summary, error)
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type EventKind string

const (
	EventLoading   EventKind = "loading"
	EventData      EventKind = "data"
	EventError     EventKind = "error"
	EventFilters   EventKind = "filters"
	EventSelection EventKind = "selection"
)

type Event struct {
	Kind       EventKind `json:"kind"`
	Generation uint64    `json:"generation"`
}

// View is a read-only snapshot of the listing page.
type View struct {
	Items      []neo.Summary  `json:"items"`
	Groups     neo.DateMap    `json:"groups"`
	Dates      []string       `json:"dates"`
	Stats      neo.Stats      `json:"stats"`
	Filters    neo.FilterSpec `json:"filters"`
	Range      DateRange      `json:"range"`
	Selected   []string       `json:"selected"`
	Error      string         `json:"error,omitempty"`
	Loading    bool           `json:"loading"`
	Generation uint64         `json:"generation"`
}

type Dashboard struct {
	owner    string
	fetcher  Fetcher
	filterer *neo.Filterer

	mu          sync.Mutex
	feed        neo.DateMap
	dateRange   DateRange
	filters     neo.FilterSpec
	selection   neo.Selection
	lastErr     error
	inflight    int
	generation  uint64
	subscribers map[chan Event]struct{}
}

// New creates a dashboard whose initial window is the week starting at now.
func New(owner string, fetcher Fetcher, now time.Time) *Dashboard {
	start := now.Format(neo.DateLayout)
	end := now.AddDate(0, 0, windowDays).Format(neo.DateLayout)

	return &Dashboard{
		owner:       owner,
		fetcher:     fetcher,
		filterer:    neo.NewFilterer(),
		feed:        make(neo.DateMap),
		dateRange:   DateRange{Start: start, End: end},
		subscribers: make(map[chan Event]struct{}),
	}
}

func (d *Dashboard) Owner() string {
	return d.owner
}

func (d *Dashboard) Range() DateRange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dateRange
}

// Load fetches [start, end] and either replaces the feed or merges it in.
// Only the most recently issued load may apply its result; earlier ones
// return ErrStaleResult and change nothing. A failed load records the error
// and keeps the previously loaded data.
func (d *Dashboard) Load(ctx context.Context, start, end string, appendPage bool) error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.inflight++
	d.lastErr = nil
	d.mu.Unlock()
	d.publish(EventLoading, gen)

	data, err := d.fetchRange(ctx, start, end)

	d.mu.Lock()
	d.inflight--
	if gen != d.generation {
		d.mu.Unlock()
		metrics.IncStaleResults()
		slog.Debug("Discarding stale feed result", "owner", d.owner, "generation", gen, "start", start, "end", end)
		return ErrStaleResult
	}

	if err != nil {
		d.lastErr = err
		d.mu.Unlock()
		slog.Error("Feed load failed", "owner", d.owner, "start", start, "end", end, "error", err)
		d.publish(EventError, gen)
		return err
	}

	if appendPage {
		d.feed = neo.Merge(d.feed, data)
		if end > d.dateRange.End {
			d.dateRange.End = end
		}
	} else {
		d.feed = data
		d.dateRange = DateRange{Start: start, End: end}
	}
	d.mu.Unlock()

	slog.Debug("Feed loaded", "owner", d.owner, "start", start, "end", end, "dates", len(data), "append", appendPage)
	d.publish(EventData, gen)
	return nil
}

// LoadRange is an explicit, user-requested load of a new window.
func (d *Dashboard) LoadRange(ctx context.Context, start, end string) error {
	if err := ValidateRange(start, end); err != nil {
		return err
	}
	return d.Load(ctx, start, end, false)
}

// LoadMore appends the week following the current window.
func (d *Dashboard) LoadMore(ctx context.Context) error {
	current := d.Range()

	next := neo.ParseDate(current.End).AddDate(0, 0, 1)
	start := next.Format(neo.DateLayout)
	end := next.AddDate(0, 0, windowDays).Format(neo.DateLayout)

	return d.Load(ctx, start, end, true)
}

// Refresh reloads the whole current window.
func (d *Dashboard) Refresh(ctx context.Context) error {
	current := d.Range()
	return d.Load(ctx, current.Start, current.End, false)
}

// fetchRange splits [start, end] into feed-sized windows and merges them.
func (d *Dashboard) fetchRange(ctx context.Context, start, end string) (neo.DateMap, error) {
	from := neo.ParseDate(start)
	to := neo.ParseDate(end)
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range %s..%s", start, end)
	}

	result := make(neo.DateMap)
	for windowStart := from; !windowStart.After(to); {
		windowEnd := windowStart.AddDate(0, 0, windowDays)
		if windowEnd.After(to) {
			windowEnd = to
		}

		page, err := d.fetcher.FetchFeed(ctx, windowStart.Format(neo.DateLayout), windowEnd.Format(neo.DateLayout))
		if err != nil {
			return nil, err
		}
		result = neo.Merge(result, page)

		windowStart = windowEnd.AddDate(0, 0, 1)
	}

	return result, nil
}

// RangeRequest is an explicitly requested load window.
type RangeRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

func (RangeRequest) ValidationMessages() validate.Messages {
	return validate.Messages{
		"start_date.required": "Start date is required",
		"start_date.datetime": "Start date must be in YYYY-MM-DD format",
		"end_date.required":   "End date is required",
		"end_date.datetime":   "End date must be in YYYY-MM-DD format",
	}
}

// Validate applies the binding rules, then bounds the span of the window.
func (r RangeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	from := neo.ParseDate(r.StartDate)
	to := neo.ParseDate(r.EndDate)
	switch {
	case to.Before(from):
		return validate.Field("end_date", "End date must not be before start date")
	case to.Sub(from) > maxLoadDays*24*time.Hour:
		return validate.Field("end_date", fmt.Sprintf("Date range cannot exceed %d days", maxLoadDays))
	}
	return nil
}

// ValidateRange checks an explicitly requested window.
func ValidateRange(start, end string) error {
	return RangeRequest{StartDate: start, EndDate: end}.Validate()
}

func (d *Dashboard) Filters() neo.FilterSpec {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filters
}

// SetFilters replaces the filter spec wholesale.
func (d *Dashboard) SetFilters(spec neo.FilterSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	d.filters = spec
	gen := d.generation
	d.mu.Unlock()

	d.publish(EventFilters, gen)
	return nil
}

func (d *Dashboard) ClearFilters() {
	d.mu.Lock()
	d.filters = neo.FilterSpec{}
	gen := d.generation
	d.mu.Unlock()

	d.publish(EventFilters, gen)
}

// Toggle flips selection of id. A selected id can always be deselected; a new
// id must be present in the loaded feed.
func (d *Dashboard) Toggle(id string) (bool, error) {
	d.mu.Lock()

	if d.selection.Contains(id) {
		d.selection = d.selection.Remove(id)
		gen := d.generation
		d.mu.Unlock()
		d.publish(EventSelection, gen)
		return false, nil
	}

	item, ok := neo.Find(d.feed, id)
	if !ok {
		d.mu.Unlock()
		return false, ErrNotFound
	}
	d.selection = d.selection.Toggle(item)
	gen := d.generation
	d.mu.Unlock()

	d.publish(EventSelection, gen)
	return true, nil
}

func (d *Dashboard) ClearSelection() {
	d.mu.Lock()
	d.selection = d.selection.Clear()
	gen := d.generation
	d.mu.Unlock()

	d.publish(EventSelection, gen)
}

func (d *Dashboard) Selection() neo.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection
}

// Compare builds the comparison report for the current selection.
func (d *Dashboard) Compare() (*compare.Report, error) {
	return compare.Build(d.Selection())
}

func (d *Dashboard) View() View {
	d.mu.Lock()
	feed := d.feed
	spec := d.filters
	view := View{
		Filters:    spec,
		Range:      d.dateRange,
		Selected:   d.selection.IDs(),
		Loading:    d.inflight > 0,
		Generation: d.generation,
	}
	if d.lastErr != nil {
		view.Error = d.lastErr.Error()
	}
	d.mu.Unlock()

	// The feed map is replaced on every load and never modified in place,
	// so it can be read outside the lock.
	view.Items = d.filterer.Run(neo.Flatten(feed), spec)
	view.Groups = neo.GroupByDate(view.Items)
	view.Dates = neo.SortedDates(view.Groups)
	view.Stats = neo.ComputeStats(view.Items)

	return view
}

// Find returns the loaded copy of an object, falling back to a detail lookup.
func (d *Dashboard) Find(ctx context.Context, id string) (neo.Summary, error) {
	d.mu.Lock()
	item, ok := neo.Find(d.feed, id)
	d.mu.Unlock()
	if ok {
		return item, nil
	}

	item, err := d.fetcher.FetchDetails(ctx, id)
	if err != nil {
		return neo.Summary{}, err
	}
	if item.ID == "" {
		return neo.Summary{}, ErrNotFound
	}
	return item, nil
}

func (d *Dashboard) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *Dashboard) DismissError() {
	d.mu.Lock()
	d.lastErr = nil
	gen := d.generation
	d.mu.Unlock()

	d.publish(EventError, gen)
}

// Subscribe returns a channel of change notifications and a function that
// unsubscribes and closes it. Slow subscribers miss events rather than block
// the dashboard.
func (d *Dashboard) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	d.mu.Lock()
	d.subscribers[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			if _, ok := d.subscribers[ch]; ok {
				delete(d.subscribers, ch)
				close(ch)
			}
			d.mu.Unlock()
		})
	}
}

func (d *Dashboard) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subscribers {
		delete(d.subscribers, ch)
		close(ch)
	}
}

func (d *Dashboard) publish(kind EventKind, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	event := Event{Kind: kind, Generation: gen}
	for ch := range d.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
