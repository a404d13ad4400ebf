package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// NormalizeTaskStatus maps accepted input spellings onto the canonical
// vocabulary. "done" is a legacy alias for completed.
func NormalizeTaskStatus(s string) (TaskStatus, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "in-progress", "in progress":
		return StatusInProgress, nil
	case "completed", "done", "Done":
		return StatusCompleted, nil
	}
	return "", Validation("invalid task status: " + s)
}

type TimeEntry struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Duration int                `bson:"duration" json:"duration"`
	Date     time.Time          `bson:"date" json:"date"`
}

// TimeTracking keeps cumulative minutes. Actual is adjusted by signed deltas
// when time logs change, never re-summed from entries.
type TimeTracking struct {
	Estimated int         `bson:"estimated" json:"estimated"`
	Actual    int         `bson:"actual" json:"actual"`
	Entries   []TimeEntry `bson:"entries" json:"entries"`
}

type Task struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID    primitive.ObjectID   `bson:"projectId" json:"projectId"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	AssigneeID   *primitive.ObjectID  `bson:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	Status       TaskStatus           `bson:"status" json:"status"`
	Priority     string               `bson:"priority" json:"priority"`
	Deadline     time.Time            `bson:"deadline,omitempty" json:"deadline"`
	DependsOn    []primitive.ObjectID `bson:"dependsOn" json:"dependsOn"`
	Visible      bool                 `bson:"visible" json:"visible"`
	Tags         []string             `bson:"tags" json:"tags"`
	Subtasks     []primitive.ObjectID `bson:"subtasks" json:"subtasks"`
	Attachments  []primitive.ObjectID `bson:"attachments" json:"attachments"`
	Comments     []primitive.ObjectID `bson:"comments" json:"comments"`
	Watchers     []primitive.ObjectID `bson:"watchers" json:"watchers"`
	ParentTaskID *primitive.ObjectID  `bson:"parentTaskId,omitempty" json:"parentTaskId,omitempty"`
	IsSubtask    bool                 `bson:"isSubtask" json:"isSubtask"`
	Progress     int                  `bson:"progress" json:"progress"`
	TimeTracking TimeTracking         `bson:"timeTracking" json:"timeTracking"`
	CreatedBy    primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	UpdatedBy    primitive.ObjectID   `bson:"updatedBy" json:"updatedBy"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// TaskTree is the recursive view of a task and its descendants.
type TaskTree struct {
	Task     Task       `json:"task"`
	Progress int        `json:"progress"`
	Subtasks []TaskTree `json:"subtasks"`
}
