package timetrack

import (
	"sync"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// DefaultInterval is how often live hours are recomputed for running tasks
const DefaultInterval = time.Minute

// Refresher runs one ticker per In Progress task and calls onTick on every beat,
// so a view can recompute displayed hours without a new status change.
type Refresher struct {
	interval time.Duration
	onTick   func(taskID string)

	mu      sync.Mutex
	watches map[string]chan struct{}
	closed  bool
}

// NewRefresher creates a refresher. onTick is called from the ticker goroutine.
func NewRefresher(interval time.Duration, onTick func(taskID string)) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		interval: interval,
		onTick:   onTick,
		watches:  make(map[string]chan struct{}),
	}
}

// Track starts a ticker for a task entering In Progress and stops it as soon
// as the task is seen in any other status.
func (r *Refresher) Track(t model.Task) {
	if t.Status != model.StatusInProgress {
		r.Stop(t.ID)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if _, ok := r.watches[t.ID]; ok {
		return
	}
	stopCh := make(chan struct{})
	r.watches[t.ID] = stopCh
	go r.loop(t.ID, stopCh)
}

// TrackAll applies Track to every task and stops watches for tasks no longer present
func (r *Refresher) TrackAll(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = true
		r.Track(t)
	}
	for _, id := range r.Watching() {
		if !seen[id] {
			r.Stop(id)
		}
	}
}

func (r *Refresher) loop(taskID string, stopCh chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if r.onTick != nil {
				r.onTick(taskID)
			}
		case <-stopCh:
			return
		}
	}
}

// Stop cancels the ticker for one task, if any
func (r *Refresher) Stop(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stopCh, ok := r.watches[taskID]; ok {
		close(stopCh)
		delete(r.watches, taskID)
	}
}

// Watching returns the ids of tasks with a live ticker
func (r *Refresher) Watching() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.watches))
	for id := range r.watches {
		ids = append(ids, id)
	}
	return ids
}

// Close stops every ticker; the refresher ignores Track calls afterwards
func (r *Refresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stopCh := range r.watches {
		close(stopCh)
		delete(r.watches, id)
	}
	r.closed = true
}
