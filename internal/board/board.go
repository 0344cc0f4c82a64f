package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
)

// ErrPending is returned when a card still waits on an earlier save
var ErrPending = errors.New("task is still saving")

// Persister saves board changes. *service.Dashboard implements it.
type Persister interface {
	ChangeTaskStatus(ctx context.Context, current model.Task, status model.Status) (model.Task, error)
	BulkUpdateStatus(ctx context.Context, tasks []model.Task, status model.Status) (service.BulkResult, error)
	BulkUpdatePriority(ctx context.Context, tasks []model.Task, priority model.Priority) (service.BulkResult, error)
	BulkDelete(ctx context.Context, ids []string) (service.BulkResult, error)
}

// SyncState tags a card as saved or waiting on the backend
type SyncState int

const (
	Confirmed SyncState = iota
	Pending
)

// Card is a task as the board currently shows it
type Card struct {
	Task  model.Task
	State SyncState
}

// Board is the local copy of a project's tasks
type Board struct {
	mu     sync.Mutex
	store  Persister
	cards  []Card
	prior  map[string]model.Task
	now    func() time.Time
	Drag   Drag
	Select Selection
}

// New builds a board over the given tasks
func New(store Persister, tasks []model.Task) *Board {
	b := &Board{store: store, prior: map[string]model.Task{}, now: time.Now}
	b.Load(tasks)
	return b
}

// Load replaces every card with confirmed copies of tasks
func (b *Board) Load(tasks []model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = make([]Card, len(tasks))
	for i, t := range tasks {
		b.cards[i] = Card{Task: t}
	}
	clear(b.prior)
}

// Tasks returns the tasks as displayed, pending changes included
func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Task, len(b.cards))
	for i, c := range b.cards {
		out[i] = c.Task
	}
	return out
}

// Card returns one card by task id
func (b *Board) Card(id string) (Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(id); i >= 0 {
		return b.cards[i], true
	}
	return Card{}, false
}

// Column returns the cards currently in a status column
func (b *Board) Column(status model.Status) []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Card
	for _, c := range b.cards {
		if c.Task.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) indexOf(id string) int {
	for i, c := range b.cards {
		if c.Task.ID == id {
			return i
		}
	}
	return -1
}

// Begin applies a status change locally and marks the card pending.
// It returns the task as it was before the change. A card has at most one
// save in flight, so Begin on a pending card fails with ErrPending.
func (b *Board) Begin(id string, status model.Status) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %s is not on the board", id)
	}
	if b.cards[i].State == Pending {
		return model.Task{}, ErrPending
	}
	before := b.cards[i].Task
	b.prior[id] = before
	optimistic := before
	optimistic.Apply(model.StatusPatch(status), b.now())
	b.cards[i] = Card{Task: optimistic, State: Pending}
	return before, nil
}

// Confirm replaces a pending card with the saved task
func (b *Board) Confirm(saved model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.prior, saved.ID)
	if i := b.indexOf(saved.ID); i >= 0 {
		b.cards[i] = Card{Task: saved}
	}
}

// Revert restores a pending card to its value before Begin
func (b *Board) Revert(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	before, ok := b.prior[id]
	if !ok {
		return
	}
	delete(b.prior, id)
	if i := b.indexOf(id); i >= 0 {
		b.cards[i] = Card{Task: before}
	}
}

// Move changes a task's status optimistically: pending locally, then
// confirmed with the saved copy, or reverted when saving fails.
func (b *Board) Move(ctx context.Context, id string, status model.Status) (model.Task, error) {
	before, err := b.Begin(id, status)
	if err != nil {
		return model.Task{}, err
	}
	saved, err := b.store.ChangeTaskStatus(ctx, before, status)
	if err != nil {
		b.Revert(id)
		return before, err
	}
	b.Confirm(saved)
	return saved, nil
}

// DropOn finishes a drag over a column. Dropping back on the starting column
// changes nothing and reports false.
func (b *Board) DropOn(ctx context.Context, col model.Status) (model.Task, bool, error) {
	intent, ok := b.Drag.Drop(col)
	if !ok {
		return model.Task{}, false, nil
	}
	t, err := b.Move(ctx, intent.TaskID, intent.To)
	return t, true, err
}

// TakeSelection returns the selected ids and empties the set, leaving the
// mode as is. Callers hand the ids to the Bulk methods.
func (b *Board) TakeSelection() []string {
	ids := b.Select.IDs()
	b.Select.Clear()
	return ids
}

func (b *Board) tasksByID(ids []string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Task
	for _, id := range ids {
		if i := b.indexOf(id); i >= 0 {
			out = append(out, b.cards[i].Task)
		}
	}
	return out
}

func (b *Board) applySaved(tasks []model.Task) {
	for _, t := range tasks {
		b.Confirm(t)
	}
}

// BulkStatus moves the given tasks. Saved tasks update locally and failed
// ones keep their old value. It does not touch the selection.
func (b *Board) BulkStatus(ctx context.Context, ids []string, status model.Status) (service.BulkResult, error) {
	res, err := b.store.BulkUpdateStatus(ctx, b.tasksByID(ids), status)
	b.applySaved(res.Updated)
	return res, err
}

// BulkPriority sets the priority of the given tasks
func (b *Board) BulkPriority(ctx context.Context, ids []string, priority model.Priority) (service.BulkResult, error) {
	res, err := b.store.BulkUpdatePriority(ctx, b.tasksByID(ids), priority)
	b.applySaved(res.Updated)
	return res, err
}

// BulkDelete deletes the given tasks and drops the deleted cards
func (b *Board) BulkDelete(ctx context.Context, ids []string) (service.BulkResult, error) {
	res, err := b.store.BulkDelete(ctx, ids)
	b.Remove(res.Deleted...)
	return res, err
}

// Remove drops cards from the board
func (b *Board) Remove(ids ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		if i := b.indexOf(id); i >= 0 {
			b.cards = append(b.cards[:i], b.cards[i+1:]...)
		}
		delete(b.prior, id)
	}
}

// Upsert adds a new card or replaces an existing one
func (b *Board) Upsert(t model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(t.ID); i >= 0 {
		b.cards[i] = Card{Task: t}
		return
	}
	b.cards = append(b.cards, Card{Task: t})
}
