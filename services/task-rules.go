package services

import (
	"math"
	"sort"
	"time"

	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComputeProgress is the deterministic progress rule: completed tasks are
// 100, pending tasks 0; without subtasks the stored value stands (50 when
// never set); otherwise the completed-subtask ratio, rounded.
func ComputeProgress(task *models.Task, subtasks []models.Task) int {
	switch task.Status {
	case models.StatusCompleted:
		return 100
	case models.StatusPending:
		return 0
	}

	if len(subtasks) == 0 {
		if task.Progress > 0 {
			return task.Progress
		}
		return 50
	}

	completed := 0
	for _, st := range subtasks {
		if st.Status == models.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(subtasks))))
}

// ValidateReorder accepts a proposed subtask order only if it is a
// permutation of the current list: same length, same identifier multiset.
func ValidateReorder(current, proposed []primitive.ObjectID) error {
	if len(current) != len(proposed) {
		return models.Validation("reordered list must contain exactly the existing subtasks")
	}

	cur := make([]string, len(current))
	for i, id := range current {
		cur[i] = id.Hex()
	}
	prop := make([]string, len(proposed))
	for i, id := range proposed {
		prop[i] = id.Hex()
	}
	sort.Strings(cur)
	sort.Strings(prop)

	for i := range cur {
		if cur[i] != prop[i] {
			return models.Validation("reordered list must contain exactly the existing subtasks")
		}
	}
	return nil
}

// ContainsID scans a reference list for an identifier.
func ContainsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// AddWatcher appends a watcher once; a duplicate add is a Conflict.
func AddWatcher(watchers []primitive.ObjectID, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if ContainsID(watchers, userID) {
		return watchers, models.Conflict("user is already watching this task")
	}
	return append(watchers, userID), nil
}

// RemoveWatcher removes a watcher if present; removing an absent watcher is
// a no-op.
func RemoveWatcher(watchers []primitive.ObjectID, userID primitive.ObjectID) []primitive.ObjectID {
	out := watchers[:0]
	for _, v := range watchers {
		if v != userID {
			out = append(out, v)
		}
	}
	return out
}

// CompletionNotice returns the watcher broadcast for a task that just moved
// into the completed status. No transition or no watchers means no notice.
func CompletionNotice(task *models.Task, completedNow bool) (string, bool) {
	if !completedNow || len(task.Watchers) == 0 {
		return "", false
	}
	return "Task completed: " + task.Title, true
}

// TaskUpdate is the allow-list of externally settable task fields. Absent
// pointers leave the stored value untouched; nothing outside this struct can
// be written through an update request.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Visible     *bool      `json:"visible,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Estimated   *int       `json:"estimated,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
}

var validTaskPriorities = map[string]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
}

// ApplyTaskUpdate merges an allow-listed update into a task. It reports
// whether the merge moved the task into the completed status. Assignee moves
// are handled by the caller because they touch other documents.
func ApplyTaskUpdate(task *models.Task, upd TaskUpdate) (completedNow bool, err error) {
	if upd.Title != nil {
		if *upd.Title == "" {
			return false, models.Validation("task title cannot be empty")
		}
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Status != nil {
		status, err := models.NormalizeTaskStatus(*upd.Status)
		if err != nil {
			return false, err
		}
		// Transitions are not enforced as a state machine; any normalized
		// value from an actor with edit permission is accepted.
		completedNow = status == models.StatusCompleted && task.Status != models.StatusCompleted
		task.Status = status
	}
	if upd.Priority != nil {
		if !validTaskPriorities[*upd.Priority] {
			return false, models.Validation("invalid task priority: " + *upd.Priority)
		}
		task.Priority = *upd.Priority
	}
	if upd.Deadline != nil {
		task.Deadline = *upd.Deadline
	}
	if upd.Visible != nil {
		task.Visible = *upd.Visible
	}
	if upd.Tags != nil {
		task.Tags = *upd.Tags
	}
	if upd.Progress != nil {
		if *upd.Progress < 0 || *upd.Progress > 100 {
			return false, models.Validation("progress must be between 0 and 100")
		}
		task.Progress = *upd.Progress
	}
	if upd.Estimated != nil {
		if *upd.Estimated < 0 {
			return false, models.Validation("estimated time cannot be negative")
		}
		task.TimeTracking.Estimated = *upd.Estimated
	}
	return completedNow, nil
}
