package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
)

// bulkLimit caps in-flight requests during a bulk operation
const bulkLimit = 8

// BulkResult reports what a bulk operation managed to change.
// Updated holds the server copies of tasks that were changed.
type BulkResult struct {
	Updated []model.Task
	Deleted []string
	Failed  []string
}

// bulk issues one call per item, waits for all of them and never cancels
// siblings when one fails. Ordering of server side effects is unspecified.
func (d *Dashboard) bulk(ctx context.Context, action string, ids []string, call func(ctx context.Context, i int) error) (failed []string, err error) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(bulkLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := call(ctx, i); err != nil {
				d.log.Error("bulk item failed", logger.F("action", action), logger.F("task_id", id), logger.Err(err))
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	if first := g.Wait(); first != nil {
		return failed, &UserError{
			Message: fmt.Sprintf("Failed to %s for %d of %d tasks. Please try again.", action, len(failed), len(ids)),
			Err:     first,
		}
	}
	return nil, nil
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// collect keeps the non-nil slots in input order
func collect(slots []*model.Task) []model.Task {
	var out []model.Task
	for _, t := range slots {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// BulkUpdateStatus moves every task to status, with time tracking per task
func (d *Dashboard) BulkUpdateStatus(ctx context.Context, tasks []model.Task, status model.Status) (BulkResult, error) {
	slots := make([]*model.Task, len(tasks))
	failed, err := d.bulk(ctx, "update status", taskIDs(tasks), func(ctx context.Context, i int) error {
		updated, err := d.gw.UpdateTask(ctx, tasks[i].ID, d.userID, d.statusPatch(tasks[i], status))
		if err != nil {
			return err
		}
		slots[i] = &updated
		return nil
	})
	return BulkResult{Updated: collect(slots), Failed: failed}, err
}

// BulkUpdatePriority sets the same priority on every task
func (d *Dashboard) BulkUpdatePriority(ctx context.Context, tasks []model.Task, priority model.Priority) (BulkResult, error) {
	slots := make([]*model.Task, len(tasks))
	failed, err := d.bulk(ctx, "update priority", taskIDs(tasks), func(ctx context.Context, i int) error {
		updated, err := d.gw.UpdateTask(ctx, tasks[i].ID, d.userID, model.PriorityPatch(priority))
		if err != nil {
			return err
		}
		slots[i] = &updated
		return nil
	})
	return BulkResult{Updated: collect(slots), Failed: failed}, err
}

// BulkDelete deletes every task id
func (d *Dashboard) BulkDelete(ctx context.Context, ids []string) (BulkResult, error) {
	done := make([]bool, len(ids))
	failed, err := d.bulk(ctx, "delete", ids, func(ctx context.Context, i int) error {
		if err := d.gw.DeleteTask(ctx, ids[i], d.userID); err != nil {
			return err
		}
		done[i] = true
		return nil
	})

	res := BulkResult{Failed: failed}
	for i, ok := range done {
		if ok {
			res.Deleted = append(res.Deleted, ids[i])
		}
	}
	return res, err
}
