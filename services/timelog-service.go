package services

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TimeLogService struct {
	TimeLogs *mongo.Collection
	Tasks    *mongo.Collection
	Projects *mongo.Collection
	Audit    audit.Recorder
}

func NewTimeLogService(timeLogs, tasks, projects *mongo.Collection, recorder audit.Recorder) *TimeLogService {
	return &TimeLogService{
		TimeLogs: timeLogs,
		Tasks:    tasks,
		Projects: projects,
		Audit:    recorder,
	}
}

var validTimeLogStatuses = map[string]bool{
	models.TimeLogStatusActive:    true,
	models.TimeLogStatusPaused:    true,
	models.TimeLogStatusCompleted: true,
}

// TimeLogInput carries the fields accepted at creation time.
type TimeLogInput struct {
	Duration    int       `json:"duration"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description"`
	Billable    bool      `json:"billable"`
	Status      string    `json:"status,omitempty"`
}

func (s *TimeLogService) resolve(ctx context.Context, taskID primitive.ObjectID) (*models.Task, *models.Project, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, nil, models.NotFound("task not found")
	}
	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": task.ProjectID}).Decode(&project); err != nil {
		return nil, nil, models.NotFound("project not found")
	}
	return &task, &project, nil
}

// Create records a time log and bumps the task's cumulative actual time by
// the logged duration.
func (s *TimeLogService) Create(ctx context.Context, actor *models.User, taskID primitive.ObjectID, input TimeLogInput) (*models.TimeLog, error) {
	if input.Duration <= 0 {
		return nil, models.Validation("duration must be a positive number of minutes")
	}
	if input.Status == "" {
		input.Status = models.TimeLogStatusCompleted
	}
	if !validTimeLogStatuses[input.Status] {
		return nil, models.Validation("invalid time log status: " + input.Status)
	}

	_, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, err
	}

	now := time.Now()
	log := &models.TimeLog{
		ID:          primitive.NewObjectID(),
		TaskID:      taskID,
		UserID:      actor.ID,
		Duration:    input.Duration,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
		Billable:    input.Billable,
		Status:      input.Status,
		CreatedAt:   now,
	}

	if _, err := s.TimeLogs.InsertOne(ctx, log); err != nil {
		return nil, models.Internal("failed to create time log", err)
	}

	entry := models.TimeEntry{UserID: actor.ID, Duration: input.Duration, Date: now}
	update := bson.M{
		"$inc":  bson.M{"timeTracking.actual": input.Duration},
		"$push": bson.M{"timeTracking.entries": entry},
	}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, models.Internal("failed to update task time tracking", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "timelog.create", TargetType: "timelog", TargetID: log.ID.Hex(), Details: "task=" + taskID.Hex()})
	return log, nil
}

// List returns a task's time logs.
func (s *TimeLogService) List(ctx context.Context, actor *models.User, taskID primitive.ObjectID) ([]models.TimeLog, error) {
	_, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, err
	}

	cursor, err := s.TimeLogs.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, models.Internal("failed to fetch time logs", err)
	}
	defer cursor.Close(ctx)

	var logs []models.TimeLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, models.Internal("failed to decode time logs", err)
	}
	return logs, nil
}

// timeLogDelta validates a replacement duration and returns the signed
// adjustment to apply to the task's cumulative actual time. The cumulative
// value is only ever adjusted by deltas, never re-summed from entries.
func timeLogDelta(oldDuration, newDuration int) (int, error) {
	if newDuration <= 0 {
		return 0, models.Validation("duration must be a positive number of minutes")
	}
	return newDuration - oldDuration, nil
}

// TimeLogUpdate is the allow-list of externally settable time log fields.
type TimeLogUpdate struct {
	Duration    *int       `json:"duration,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Description *string    `json:"description,omitempty"`
	Billable    *bool      `json:"billable,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Update edits a time log. A duration change adjusts the task's cumulative
// actual time by the signed delta, never by re-summing entries.
func (s *TimeLogService) Update(ctx context.Context, actor *models.User, logID primitive.ObjectID, upd TimeLogUpdate) (*models.TimeLog, error) {
	var log models.TimeLog
	if err := s.TimeLogs.FindOne(ctx, bson.M{"_id": logID}).Decode(&log); err != nil {
		return nil, models.NotFound("time log not found")
	}

	_, project, err := s.resolve(ctx, log.TaskID)
	if err != nil {
		return nil, err
	}
	if log.UserID != actor.ID {
		access, aerr := EvaluateProjectAccess(actor, project)
		if aerr != nil {
			return nil, aerr
		}
		if !access.AtLeast(models.ProjectRoleAdmin) {
			return nil, models.Forbidden("only the entry owner or a project admin can edit this time log")
		}
	}

	delta := 0
	if upd.Duration != nil {
		d, err := timeLogDelta(log.Duration, *upd.Duration)
		if err != nil {
			return nil, err
		}
		delta = d
		log.Duration = *upd.Duration
	}
	if upd.StartTime != nil {
		log.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		log.EndTime = *upd.EndTime
	}
	if upd.Description != nil {
		log.Description = *upd.Description
	}
	if upd.Billable != nil {
		log.Billable = *upd.Billable
	}
	if upd.Status != nil {
		if !validTimeLogStatuses[*upd.Status] {
			return nil, models.Validation("invalid time log status: " + *upd.Status)
		}
		log.Status = *upd.Status
	}

	if _, err := s.TimeLogs.ReplaceOne(ctx, bson.M{"_id": logID}, &log); err != nil {
		return nil, models.Internal("failed to update time log", err)
	}

	if delta != 0 {
		if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": log.TaskID}, bson.M{"$inc": bson.M{"timeTracking.actual": delta}}); err != nil {
			return nil, models.Internal("failed to adjust task time tracking", err)
		}
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "timelog.update", TargetType: "timelog", TargetID: logID.Hex()})
	return &log, nil
}

// Delete removes a time log and decrements the task's cumulative actual
// time by the entry's duration.
func (s *TimeLogService) Delete(ctx context.Context, actor *models.User, logID primitive.ObjectID) error {
	var log models.TimeLog
	if err := s.TimeLogs.FindOne(ctx, bson.M{"_id": logID}).Decode(&log); err != nil {
		return models.NotFound("time log not found")
	}

	_, project, err := s.resolve(ctx, log.TaskID)
	if err != nil {
		return err
	}
	if log.UserID != actor.ID {
		access, aerr := EvaluateProjectAccess(actor, project)
		if aerr != nil {
			return aerr
		}
		if !access.AtLeast(models.ProjectRoleAdmin) {
			return models.Forbidden("only the entry owner or a project admin can delete this time log")
		}
	}

	if _, err := s.TimeLogs.DeleteOne(ctx, bson.M{"_id": logID}); err != nil {
		return models.Internal("failed to delete time log", err)
	}

	update := bson.M{
		"$inc":  bson.M{"timeTracking.actual": -log.Duration},
		"$pull": bson.M{"timeTracking.entries": bson.M{"userId": log.UserID, "duration": log.Duration, "date": log.CreatedAt}},
	}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": log.TaskID}, update); err != nil {
		return models.Internal("failed to adjust task time tracking", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "timelog.delete", TargetType: "timelog", TargetID: logID.Hex()})
	return nil
}
