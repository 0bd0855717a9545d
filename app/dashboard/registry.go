package dashboard

import (
	"sort"
	"sync"
	"time"

	"github.com/lysyi3m/neo-comb/app/metrics"
)

// Registry keeps one dashboard per signed-in user.
type Registry struct {
	fetcher Fetcher
	now     func() time.Time

	mu         sync.RWMutex
	dashboards map[string]*Dashboard
}

func NewRegistry(fetcher Fetcher, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		fetcher:    fetcher,
		now:        now,
		dashboards: make(map[string]*Dashboard),
	}
}

// Get returns the owner's dashboard, creating it when absent. created reports
// whether this call made it, so the caller can schedule the first load.
func (r *Registry) Get(owner string) (d *Dashboard, created bool) {
	r.mu.RLock()
	d, ok := r.dashboards[owner]
	r.mu.RUnlock()
	if ok {
		return d, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.dashboards[owner]; ok {
		return d, false
	}
	d = New(owner, r.fetcher, r.now())
	r.dashboards[owner] = d
	metrics.SetActiveDashboards(len(r.dashboards))

	return d, true
}

func (r *Registry) Lookup(owner string) (*Dashboard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dashboards[owner]
	return d, ok
}

func (r *Registry) Drop(owner string) {
	r.mu.Lock()
	d, ok := r.dashboards[owner]
	delete(r.dashboards, owner)
	metrics.SetActiveDashboards(len(r.dashboards))
	r.mu.Unlock()

	if ok {
		d.closeSubscribers()
	}
}

// Close drops every dashboard, ending their subscriptions.
func (r *Registry) Close() {
	r.mu.Lock()
	dashboards := r.dashboards
	r.dashboards = make(map[string]*Dashboard)
	metrics.SetActiveDashboards(0)
	r.mu.Unlock()

	for _, d := range dashboards {
		d.closeSubscribers()
	}
}

// All returns the dashboards sorted by owner.
func (r *Registry) All() []*Dashboard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Dashboard, 0, len(r.dashboards))
	for _, d := range r.dashboards {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].owner < all[j].owner })
	return all
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dashboards)
}
