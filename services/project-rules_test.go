package services

import (
	"strings"
	"testing"

	"github.com/Tanish6738/project-management-sub001/models"
)

func TestValidateWorkflow(t *testing.T) {
	if err := ValidateWorkflow(models.DefaultWorkflow); err != nil {
		t.Errorf("ValidateWorkflow(default) = %v, want nil", err)
	}
	if err := ValidateWorkflow([]string{"Single Stage"}); err != nil {
		t.Errorf("ValidateWorkflow(one stage) = %v, want nil", err)
	}
	if err := ValidateWorkflow([]string{}); err == nil {
		t.Error("ValidateWorkflow(empty) = nil, want error")
	}

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "Stage " + strings.Repeat("I", i+1)
	}
	if err := ValidateWorkflow(eleven); err == nil {
		t.Error("ValidateWorkflow(11 stages) = nil, want error")
	}

	if err := ValidateWorkflow([]string{"To Do", "   "}); err == nil {
		t.Error("ValidateWorkflow(blank stage name) = nil, want error")
	}
}

func TestApplyProjectUpdate(t *testing.T) {
	project := &models.Project{
		Title:    "Release plan",
		Status:   models.ProjectStatusActive,
		Priority: models.PriorityMedium,
		Workflow: append([]string{}, models.DefaultWorkflow...),
	}

	title := "Release plan v2"
	status := models.ProjectStatusArchived
	priority := models.PriorityUrgent
	if err := ApplyProjectUpdate(project, ProjectUpdate{Title: &title, Status: &status, Priority: &priority}); err != nil {
		t.Fatalf("ApplyProjectUpdate() error = %v, want nil", err)
	}
	if project.Title != title {
		t.Errorf("project.Title = %q, want %q", project.Title, title)
	}
	if project.Status != models.ProjectStatusArchived {
		t.Errorf("project.Status = %q, want %q", project.Status, models.ProjectStatusArchived)
	}
	if project.Priority != models.PriorityUrgent {
		t.Errorf("project.Priority = %q, want %q", project.Priority, models.PriorityUrgent)
	}
}

func TestApplyProjectUpdateValidation(t *testing.T) {
	empty := ""
	if err := ApplyProjectUpdate(&models.Project{}, ProjectUpdate{Title: &empty}); err == nil {
		t.Error("ApplyProjectUpdate(empty title) = nil, want error")
	}

	bogusStatus := "paused"
	if err := ApplyProjectUpdate(&models.Project{}, ProjectUpdate{Status: &bogusStatus}); err == nil {
		t.Error("ApplyProjectUpdate(invalid status) = nil, want error")
	}

	tooMany := make([]string, models.MaxWorkflowStages+1)
	for i := range tooMany {
		tooMany[i] = "s"
	}
	if err := ApplyProjectUpdate(&models.Project{}, ProjectUpdate{Workflow: &tooMany}); err == nil {
		t.Error("ApplyProjectUpdate(oversized workflow) = nil, want error")
	}
}

func TestApplyProjectUpdateWorkflowReplacement(t *testing.T) {
	project := &models.Project{Workflow: append([]string{}, models.DefaultWorkflow...)}
	workflow := []string{"Backlog", "Doing", "Done"}

	if err := ApplyProjectUpdate(project, ProjectUpdate{Workflow: &workflow}); err != nil {
		t.Fatalf("ApplyProjectUpdate() error = %v, want nil", err)
	}
	if len(project.Workflow) != 3 || project.Workflow[0] != "Backlog" {
		t.Errorf("project.Workflow = %v, want %v", project.Workflow, workflow)
	}
}
