// Package timetrack turns task status history into elapsed working hours.
package timetrack

import (
	"math"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// ElapsedSeconds returns accumulated seconds plus the open session, if any.
// A task marked In Progress without a start timestamp only counts closed sessions.
func ElapsedSeconds(t model.Task, now time.Time) int64 {
	var total int64
	if t.InProgressTotalSeconds != nil {
		total = *t.InProgressTotalSeconds
	}
	if t.Status == model.StatusInProgress && t.InProgressStartedAt != nil {
		if open := now.Sub(*t.InProgressStartedAt); open > 0 {
			total += int64(open / time.Second)
		}
	}
	return total
}

// ActualHours returns the displayed hours for a task, rounded to one decimal.
// Legacy tasks without tracking fields fall back to their stored value.
func ActualHours(t model.Task, now time.Time) float64 {
	if !t.HasTimeTracking() {
		return t.ActualHours
	}
	return roundTenth(float64(ElapsedSeconds(t, now)) / 3600)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// StatusChangeUpdates computes the patch for moving a task from oldStatus to newStatus.
// Entering In Progress opens a session; leaving it folds the session into the total.
func StatusChangeUpdates(oldStatus, newStatus model.Status, current model.Task, now time.Time) model.TaskPatch {
	patch := model.TaskPatch{LastStatusChangeAt: &now}
	if oldStatus == newStatus {
		return patch
	}
	patch.Status = &newStatus

	switch {
	case newStatus == model.StatusInProgress:
		patch.InProgressStartedAt = model.SetTime(now)
	case oldStatus == model.StatusInProgress:
		var total int64
		if current.InProgressTotalSeconds != nil {
			total = *current.InProgressTotalSeconds
		}
		if current.InProgressStartedAt != nil {
			if open := now.Sub(*current.InProgressStartedAt); open > 0 {
				total += int64(open / time.Second)
			}
		}
		patch.InProgressTotalSeconds = &total
		patch.InProgressStartedAt = model.ClearTime()
	}
	return patch
}
