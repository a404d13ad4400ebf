package services

import (
	"context"
	"io"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AttachmentService struct {
	Attachments *mongo.Collection
	Tasks       *mongo.Collection
	Projects    *mongo.Collection
	Store       storage.FileStore
	Audit       audit.Recorder
}

func NewAttachmentService(attachments, tasks, projects *mongo.Collection, store storage.FileStore, recorder audit.Recorder) *AttachmentService {
	return &AttachmentService{
		Attachments: attachments,
		Tasks:       tasks,
		Projects:    projects,
		Store:       store,
		Audit:       recorder,
	}
}

// removeAttachmentBlobs deletes the stored files behind a set of attachment
// records. Best effort: a failed blob delete is logged and the record delete
// proceeds, so cascades never strand the database side.
func removeAttachmentBlobs(store storage.FileStore, attachments []models.Attachment) {
	if store == nil {
		return
	}
	for _, a := range attachments {
		if err := store.Delete(a.FilePath); err != nil {
			logging.Logger.Warnf("Event ID: BLOB_DELETE_FAILED, Description: Failed to delete stored file for attachment %s: %v", a.ID.Hex(), err)
		}
	}
}

func (s *AttachmentService) resolve(ctx context.Context, taskID primitive.ObjectID) (*models.Task, *models.Project, error) {
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

// Upload stores the file and records an attachment under the task.
func (s *AttachmentService) Upload(ctx context.Context, actor *models.User, taskID primitive.ObjectID, fileName, mimeType string, r io.Reader) (*models.Attachment, error) {
	if fileName == "" {
		return nil, models.Validation("file name is required")
	}

	_, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return nil, err
	}
	if !access.CanEditTasks() {
		return nil, models.Forbidden("missing permission to attach files in this project")
	}

	path, size, err := s.Store.Save(fileName, r)
	if err != nil {
		return nil, models.Internal("failed to store file", err)
	}

	attachment := &models.Attachment{
		ID:         primitive.NewObjectID(),
		TaskID:     taskID,
		FileName:   fileName,
		FilePath:   path,
		MimeType:   mimeType,
		Size:       size,
		UploadedBy: actor.ID,
		CreatedAt:  time.Now(),
	}

	if _, err := s.Attachments.InsertOne(ctx, attachment); err != nil {
		// Keep the store and the collection consistent.
		s.Store.Delete(path)
		return nil, models.Internal("failed to record attachment", err)
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$push": bson.M{"attachments": attachment.ID}}); err != nil {
		return nil, models.Internal("failed to link attachment to task", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "attachment.upload", TargetType: "attachment", TargetID: attachment.ID.Hex(), Details: fileName})
	return attachment, nil
}

// List returns a task's attachments.
func (s *AttachmentService) List(ctx context.Context, actor *models.User, taskID primitive.ObjectID) ([]models.Attachment, error) {
	_, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, err
	}

	cursor, err := s.Attachments.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, models.Internal("failed to fetch attachments", err)
	}
	defer cursor.Close(ctx)

	var attachments []models.Attachment
	if err := cursor.All(ctx, &attachments); err != nil {
		return nil, models.Internal("failed to decode attachments", err)
	}
	return attachments, nil
}

// Download opens the stored blob for streaming.
func (s *AttachmentService) Download(ctx context.Context, actor *models.User, attachmentID primitive.ObjectID) (*models.Attachment, io.ReadCloser, error) {
	var attachment models.Attachment
	if err := s.Attachments.FindOne(ctx, bson.M{"_id": attachmentID}).Decode(&attachment); err != nil {
		return nil, nil, models.NotFound("attachment not found")
	}

	_, project, err := s.resolve(ctx, attachment.TaskID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, nil, err
	}

	if !s.Store.Exists(attachment.FilePath) {
		return nil, nil, models.NotFound("stored file is missing")
	}
	f, err := s.Store.Open(attachment.FilePath)
	if err != nil {
		return nil, nil, models.Internal("failed to open stored file", err)
	}
	return &attachment, f, nil
}

// Delete removes the blob, the attachment record and the task reference.
// Allowed for the uploader, the project owner, or a project admin.
func (s *AttachmentService) Delete(ctx context.Context, actor *models.User, attachmentID primitive.ObjectID) error {
	var attachment models.Attachment
	if err := s.Attachments.FindOne(ctx, bson.M{"_id": attachmentID}).Decode(&attachment); err != nil {
		return models.NotFound("attachment not found")
	}

	_, project, err := s.resolve(ctx, attachment.TaskID)
	if err != nil {
		return err
	}

	if attachment.UploadedBy != actor.ID {
		access, aerr := EvaluateProjectAccess(actor, project)
		if aerr != nil {
			return aerr
		}
		if !access.AtLeast(models.ProjectRoleAdmin) {
			return models.Forbidden("only the uploader or a project admin can delete this attachment")
		}
	}

	if err := s.Store.Delete(attachment.FilePath); err != nil {
		return models.Internal("failed to delete stored file", err)
	}
	if _, err := s.Attachments.DeleteOne(ctx, bson.M{"_id": attachmentID}); err != nil {
		return models.Internal("failed to delete attachment", err)
	}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": attachment.TaskID}, bson.M{"$pull": bson.M{"attachments": attachmentID}}); err != nil {
		return models.Internal("failed to unlink attachment from task", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "attachment.delete", TargetType: "attachment", TargetID: attachmentID.Hex()})
	return nil
}
