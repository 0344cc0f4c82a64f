// Package board holds the kanban's local state: the drag and multi-select
// machines and an optimistic copy of the project's tasks.
package board

import "github.com/existflow/launchdeck/internal/model"

// Drag is the idle -> dragging(task) -> idle machine
type Drag struct {
	taskID string
	from   model.Status
	over   model.Status
}

// DropIntent is the status change a completed drag asks for
type DropIntent struct {
	TaskID string
	From   model.Status
	To     model.Status
}

// Start begins dragging a task from its current column
func (d *Drag) Start(t model.Task) {
	d.taskID, d.from, d.over = t.ID, t.Status, t.Status
}

// Active reports whether a drag is in progress
func (d *Drag) Active() bool {
	return d.taskID != ""
}

// TaskID returns the dragged task, empty when idle
func (d *Drag) TaskID() string {
	return d.taskID
}

// Over returns the column under the dragged card
func (d *Drag) Over() model.Status {
	return d.over
}

// Hover moves the dragged card over a column
func (d *Drag) Hover(col model.Status) {
	if d.Active() {
		d.over = col
	}
}

// Drop ends the drag on a column. It yields an intent only when the column
// differs from where the task started.
func (d *Drag) Drop(col model.Status) (DropIntent, bool) {
	if !d.Active() {
		return DropIntent{}, false
	}
	intent := DropIntent{TaskID: d.taskID, From: d.from, To: col}
	d.Cancel()
	return intent, intent.From != intent.To
}

// Cancel returns to idle without changing anything
func (d *Drag) Cancel() {
	*d = Drag{}
}
