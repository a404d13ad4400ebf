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

type CommentService struct {
	Comments *mongo.Collection
	Tasks    *mongo.Collection
	Projects *mongo.Collection
	Audit    audit.Recorder
}

func NewCommentService(comments, tasks, projects *mongo.Collection, recorder audit.Recorder) *CommentService {
	return &CommentService{
		Comments: comments,
		Tasks:    tasks,
		Projects: projects,
		Audit:    recorder,
	}
}

func (s *CommentService) resolve(ctx context.Context, taskID primitive.ObjectID) (*models.Task, *models.Project, error) {
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

// CreateComment posts a comment or a one-level reply. Project members and
// task watchers may comment when the project allows comments.
func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, taskID primitive.ObjectID, content string, parentID *primitive.ObjectID) (*models.Comment, error) {
	if content == "" {
		return nil, models.Validation("comment content is required")
	}

	task, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, aerr := EvaluateProjectAccess(actor, project); aerr != nil {
		if !ContainsID(task.Watchers, actor.ID) {
			return nil, aerr
		}
	}
	if !project.Settings.AllowComments {
		return nil, models.Forbidden("comments are disabled for this project")
	}

	var parent *models.Comment
	if parentID != nil {
		var p models.Comment
		if err := s.Comments.FindOne(ctx, bson.M{"_id": *parentID}).Decode(&p); err != nil {
			return nil, models.NotFound("parent comment not found")
		}
		if p.TaskID != taskID {
			return nil, models.Validation("parent comment belongs to another task")
		}
		if p.ParentID != nil {
			return nil, models.Validation("replies cannot be nested further")
		}
		parent = &p
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		AuthorID:  actor.ID,
		Content:   content,
		Replies:   []primitive.ObjectID{},
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if _, err := s.Comments.InsertOne(ctx, comment); err != nil {
		return nil, models.Internal("failed to create comment", err)
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$push": bson.M{"comments": comment.ID}}); err != nil {
		return nil, models.Internal("failed to link comment to task", err)
	}
	if parent != nil {
		if _, err := s.Comments.UpdateOne(ctx, bson.M{"_id": parent.ID}, bson.M{"$push": bson.M{"replies": comment.ID}}); err != nil {
			return nil, models.Internal("failed to link reply to parent", err)
		}
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "comment.create", TargetType: "comment", TargetID: comment.ID.Hex(), Details: "task=" + taskID.Hex()})
	return comment, nil
}

// ListComments returns all comments of a task.
func (s *CommentService) ListComments(ctx context.Context, actor *models.User, taskID primitive.ObjectID) ([]models.Comment, error) {
	task, project, err := s.resolve(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, aerr := EvaluateProjectAccess(actor, project); aerr != nil {
		if !ContainsID(task.Watchers, actor.ID) {
			return nil, aerr
		}
	}

	cursor, err := s.Comments.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, models.Internal("failed to fetch comments", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, models.Internal("failed to decode comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment and its replies. Allowed for the author
// or a project admin/owner.
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, commentID primitive.ObjectID) error {
	var comment models.Comment
	if err := s.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		return models.NotFound("comment not found")
	}

	_, project, err := s.resolve(ctx, comment.TaskID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID {
		access, aerr := EvaluateProjectAccess(actor, project)
		if aerr != nil {
			return aerr
		}
		if !access.AtLeast(models.ProjectRoleAdmin) {
			return models.Forbidden("only the author or a project admin can delete this comment")
		}
	}

	doomed := append([]primitive.ObjectID{commentID}, comment.Replies...)

	if _, err := s.Comments.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": doomed}}); err != nil {
		return models.Internal("failed to delete comment", err)
	}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": comment.TaskID}, bson.M{"$pull": bson.M{"comments": bson.M{"$in": doomed}}}); err != nil {
		return models.Internal("failed to unlink comment from task", err)
	}
	if comment.ParentID != nil {
		if _, err := s.Comments.UpdateOne(ctx, bson.M{"_id": *comment.ParentID}, bson.M{"$pull": bson.M{"replies": commentID}}); err != nil {
			return models.Internal("failed to unlink reply from parent", err)
		}
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "comment.delete", TargetType: "comment", TargetID: commentID.Hex()})
	return nil
}
