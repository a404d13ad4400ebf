package services

import (
	"strings"

	"github.com/Tanish6738/project-management-sub001/models"
)

// ValidateWorkflow enforces the 1..10 stage bound and non-empty stage names.
func ValidateWorkflow(stages []string) error {
	if len(stages) < models.MinWorkflowStages || len(stages) > models.MaxWorkflowStages {
		return models.Validation("workflow must have between 1 and 10 stages")
	}
	for _, stage := range stages {
		if strings.TrimSpace(stage) == "" {
			return models.Validation("workflow stage names cannot be empty")
		}
	}
	return nil
}

var validProjectStatuses = map[string]bool{
	models.ProjectStatusActive:    true,
	models.ProjectStatusArchived:  true,
	models.ProjectStatusCompleted: true,
}

var validProjectPriorities = map[string]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
	models.PriorityUrgent: true,
}

// ProjectUpdate is the allow-list of externally settable project fields.
type ProjectUpdate struct {
	Title       *string                 `json:"title,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Status      *string                 `json:"status,omitempty"`
	Priority    *string                 `json:"priority,omitempty"`
	Workflow    *[]string               `json:"workflow,omitempty"`
	Settings    *models.ProjectSettings `json:"settings,omitempty"`
	Tags        *[]string               `json:"tags,omitempty"`
}

// ApplyProjectUpdate merges an allow-listed update into a project. Type,
// owner, team and member list are never settable through an update.
func ApplyProjectUpdate(project *models.Project, upd ProjectUpdate) error {
	if upd.Title != nil {
		if *upd.Title == "" {
			return models.Validation("project title cannot be empty")
		}
		project.Title = *upd.Title
	}
	if upd.Description != nil {
		project.Description = *upd.Description
	}
	if upd.Status != nil {
		if !validProjectStatuses[*upd.Status] {
			return models.Validation("invalid project status: " + *upd.Status)
		}
		project.Status = *upd.Status
	}
	if upd.Priority != nil {
		if !validProjectPriorities[*upd.Priority] {
			return models.Validation("invalid project priority: " + *upd.Priority)
		}
		project.Priority = *upd.Priority
	}
	if upd.Workflow != nil {
		if err := ValidateWorkflow(*upd.Workflow); err != nil {
			return err
		}
		project.Workflow = *upd.Workflow
	}
	if upd.Settings != nil {
		project.Settings = *upd.Settings
	}
	if upd.Tags != nil {
		project.Tags = *upd.Tags
	}
	return nil
}
