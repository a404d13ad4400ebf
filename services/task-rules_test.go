package services

import (
	"testing"

	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func taskWithStatus(status models.TaskStatus) *models.Task {
	return &models.Task{ID: primitive.NewObjectID(), Status: status}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name     string
		task     *models.Task
		subtasks []models.Task
		want     int
	}{
		{
			name: "completed task is always 100",
			task: taskWithStatus(models.StatusCompleted),
			want: 100,
		},
		{
			name: "pending task is always 0",
			task: taskWithStatus(models.StatusPending),
			want: 0,
		},
		{
			name: "in progress without subtasks defaults to 50",
			task: taskWithStatus(models.StatusInProgress),
			want: 50,
		},
		{
			name: "in progress keeps a stored value",
			task: &models.Task{Status: models.StatusInProgress, Progress: 70},
			want: 70,
		},
		{
			name: "subtask ratio two of three",
			task: taskWithStatus(models.StatusInProgress),
			subtasks: []models.Task{
				{Status: models.StatusCompleted},
				{Status: models.StatusCompleted},
				{Status: models.StatusPending},
			},
			want: 67,
		},
		{
			name: "subtask ratio none done",
			task: taskWithStatus(models.StatusInProgress),
			subtasks: []models.Task{
				{Status: models.StatusPending},
				{Status: models.StatusInProgress},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.task, tt.subtasks); got != tt.want {
				t.Errorf("ComputeProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateReorder(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	current := []primitive.ObjectID{a, b, c}

	if err := ValidateReorder(current, []primitive.ObjectID{c, a, b}); err != nil {
		t.Errorf("ValidateReorder(permutation) = %v, want nil", err)
	}
	if err := ValidateReorder(current, []primitive.ObjectID{a, b}); err == nil {
		t.Error("ValidateReorder(shorter list) = nil, want error")
	}
	if err := ValidateReorder(current, []primitive.ObjectID{a, b, primitive.NewObjectID()}); err == nil {
		t.Error("ValidateReorder(foreign id) = nil, want error")
	}
	if err := ValidateReorder(current, []primitive.ObjectID{a, a, b}); err == nil {
		t.Error("ValidateReorder(duplicated id) = nil, want error")
	}
}

func TestWatcherRules(t *testing.T) {
	user := primitive.NewObjectID()

	watchers, err := AddWatcher(nil, user)
	if err != nil {
		t.Fatalf("AddWatcher() error = %v, want nil", err)
	}
	if len(watchers) != 1 || watchers[0] != user {
		t.Fatalf("AddWatcher() = %v, want [%v]", watchers, user)
	}

	if _, err := AddWatcher(watchers, user); models.KindOf(err) != models.KindConflict {
		t.Errorf("duplicate AddWatcher() kind = %v, want KindConflict", models.KindOf(err))
	}

	watchers = RemoveWatcher(watchers, user)
	if len(watchers) != 0 {
		t.Errorf("RemoveWatcher() left %d watchers, want 0", len(watchers))
	}
	// Removing an absent watcher is a no-op.
	watchers = RemoveWatcher(watchers, user)
	if len(watchers) != 0 {
		t.Errorf("RemoveWatcher() on empty list = %v, want empty", watchers)
	}
}

func TestApplyTaskUpdateCompletionSignal(t *testing.T) {
	task := taskWithStatus(models.StatusInProgress)
	status := "done"

	completedNow, err := ApplyTaskUpdate(task, TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("ApplyTaskUpdate() error = %v, want nil", err)
	}
	if !completedNow {
		t.Error("completedNow = false on transition to completed, want true")
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("task.Status = %q, want %q", task.Status, models.StatusCompleted)
	}

	// Re-completing an already completed task is not a fresh completion.
	completedNow, err = ApplyTaskUpdate(task, TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("ApplyTaskUpdate() error = %v, want nil", err)
	}
	if completedNow {
		t.Error("completedNow = true on already completed task, want false")
	}
}

func TestCompletionNotice(t *testing.T) {
	watched := &models.Task{
		Title:    "ship release",
		Status:   models.StatusCompleted,
		Watchers: []primitive.ObjectID{primitive.NewObjectID()},
	}

	message, ok := CompletionNotice(watched, true)
	if !ok {
		t.Fatal("CompletionNotice(completed, watched) ok = false, want true")
	}
	if message != "Task completed: ship release" {
		t.Errorf("CompletionNotice() message = %q, want %q", message, "Task completed: ship release")
	}

	// An ordinary edit of a watched task stays quiet.
	if _, ok := CompletionNotice(watched, false); ok {
		t.Error("CompletionNotice(not completed now) ok = true, want false")
	}

	// A completion nobody watches has no audience.
	unwatched := &models.Task{Title: "ship release", Status: models.StatusCompleted}
	if _, ok := CompletionNotice(unwatched, true); ok {
		t.Error("CompletionNotice(no watchers) ok = true, want false")
	}
}

func TestApplyTaskUpdateValidation(t *testing.T) {
	empty := ""
	if _, err := ApplyTaskUpdate(taskWithStatus(models.StatusPending), TaskUpdate{Title: &empty}); err == nil {
		t.Error("ApplyTaskUpdate(empty title) = nil, want error")
	}

	bogus := "critical"
	if _, err := ApplyTaskUpdate(taskWithStatus(models.StatusPending), TaskUpdate{Priority: &bogus}); err == nil {
		t.Error("ApplyTaskUpdate(invalid priority) = nil, want error")
	}

	over := 120
	if _, err := ApplyTaskUpdate(taskWithStatus(models.StatusPending), TaskUpdate{Progress: &over}); err == nil {
		t.Error("ApplyTaskUpdate(progress > 100) = nil, want error")
	}

	negative := -5
	if _, err := ApplyTaskUpdate(taskWithStatus(models.StatusPending), TaskUpdate{Estimated: &negative}); err == nil {
		t.Error("ApplyTaskUpdate(negative estimate) = nil, want error")
	}
}

func TestApplyTaskUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	task := &models.Task{
		Title:    "write report",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
		Progress: 40,
	}
	desc := "updated description"

	if _, err := ApplyTaskUpdate(task, TaskUpdate{Description: &desc}); err != nil {
		t.Fatalf("ApplyTaskUpdate() error = %v, want nil", err)
	}
	if task.Title != "write report" {
		t.Errorf("task.Title = %q, want unchanged", task.Title)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("task.Priority = %q, want unchanged", task.Priority)
	}
	if task.Progress != 40 {
		t.Errorf("task.Progress = %d, want unchanged", task.Progress)
	}
	if task.Description != desc {
		t.Errorf("task.Description = %q, want %q", task.Description, desc)
	}
}

func TestNormalizeTaskStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.TaskStatus
		wantErr bool
	}{
		{"pending", models.StatusPending, false},
		{"in-progress", models.StatusInProgress, false},
		{"in progress", models.StatusInProgress, false},
		{"completed", models.StatusCompleted, false},
		{"done", models.StatusCompleted, false},
		{"Done", models.StatusCompleted, false},
		{"cancelled", "", true},
	}

	for _, tt := range tests {
		got, err := models.NormalizeTaskStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeTaskStatus(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeTaskStatus(%q) error = %v, want nil", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeTaskStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if !ContainsID([]primitive.ObjectID{a, b}, a) {
		t.Error("ContainsID() = false for present id, want true")
	}
	if ContainsID([]primitive.ObjectID{a}, b) {
		t.Error("ContainsID() = true for absent id, want false")
	}
}
