package services

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectService struct {
	Projects *mongo.Collection
	Teams    *mongo.Collection
	Users    *mongo.Collection
	Tasks    *mongo.Collection
	Store    storage.FileStore
	Audit    audit.Recorder
}

func NewProjectService(projects, teams, users, tasks *mongo.Collection, store storage.FileStore, recorder audit.Recorder) *ProjectService {
	return &ProjectService{
		Projects: projects,
		Teams:    teams,
		Users:    users,
		Tasks:    tasks,
		Store:    store,
		Audit:    recorder,
	}
}

// ProjectInput carries the fields accepted at creation time.
type ProjectInput struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Type        string                  `json:"type"`
	TeamID      *primitive.ObjectID     `json:"teamId,omitempty"`
	Workflow    []string                `json:"workflow,omitempty"`
	Priority    string                  `json:"priority,omitempty"`
	Settings    *models.ProjectSettings `json:"settings,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
}

// CreateProject creates a project owned by the actor. Team-typed projects
// require a team reference and team membership of the creator.
func (s *ProjectService) CreateProject(ctx context.Context, owner *models.User, input ProjectInput) (*models.Project, error) {
	if input.Title == "" {
		return nil, models.Validation("project title is required")
	}
	if input.Type == "" {
		input.Type = models.ProjectTypePersonal
	}
	if input.Type != models.ProjectTypePersonal && input.Type != models.ProjectTypeTeam {
		return nil, models.Validation("invalid project type: " + input.Type)
	}
	if input.Type == models.ProjectTypeTeam && input.TeamID == nil {
		return nil, models.Validation("team projects require a team reference")
	}
	if input.Type == models.ProjectTypePersonal && input.TeamID != nil {
		return nil, models.Validation("personal projects cannot carry a team reference")
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !validProjectPriorities[input.Priority] {
		return nil, models.Validation("invalid project priority: " + input.Priority)
	}

	workflow := input.Workflow
	if len(workflow) == 0 {
		workflow = append([]string{}, models.DefaultWorkflow...)
	}
	if err := ValidateWorkflow(workflow); err != nil {
		return nil, err
	}

	var team *models.Team
	if input.TeamID != nil {
		var t models.Team
		if err := s.Teams.FindOne(ctx, bson.M{"_id": *input.TeamID}).Decode(&t); err != nil {
			return nil, models.NotFound("team not found")
		}
		if _, err := EvaluateTeamAccess(owner, &t); err != nil {
			return nil, err
		}
		team = &t
	}

	settings := models.ProjectSettings{
		Visibility:            "private",
		AllowComments:         true,
		NotificationFrequency: "daily",
	}
	if input.Settings != nil {
		settings = *input.Settings
	}

	now := time.Now()
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     owner.ID,
		Type:        input.Type,
		TeamID:      input.TeamID,
		Members:     []models.ProjectMember{},
		Workflow:    workflow,
		Status:      models.ProjectStatusActive,
		Priority:    input.Priority,
		Settings:    settings,
		Tags:        input.Tags,
		Metrics:     models.ProjectMetrics{LastActivity: now},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.Projects.InsertOne(ctx, project); err != nil {
		return nil, models.Internal("failed to create project", err)
	}

	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": owner.ID}, bson.M{"$addToSet": bson.M{"projects": project.ID}}); err != nil {
		return nil, models.Internal("failed to link project to owner", err)
	}

	if team != nil {
		linked := models.LinkedProject{ProjectID: project.ID, AddedBy: owner.ID, AddedAt: now}
		if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": team.ID}, bson.M{"$push": bson.M{"projects": linked}}); err != nil {
			return nil, models.Internal("failed to link project to team", err)
		}
	}

	s.Audit.Record(ctx, audit.Event{ActorID: owner.ID.Hex(), Action: "project.create", TargetType: "project", TargetID: project.ID.Hex(), Details: input.Title})
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NotFound("project not found")
		}
		return nil, models.Internal("error fetching project", err)
	}
	return &project, nil
}

// GetProject loads a project for a principal. Team members holding the
// canViewAllProjects flag may read team projects they are not members of.
func (s *ProjectService) GetProject(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := EvaluateProjectAccess(actor, project); err == nil {
		return project, nil
	}

	if project.TeamID != nil {
		var team models.Team
		if terr := s.Teams.FindOne(ctx, bson.M{"_id": *project.TeamID}).Decode(&team); terr == nil {
			if access, terr := EvaluateTeamAccess(actor, &team); terr == nil && access.CanViewAllProjects() {
				return project, nil
			}
		}
	}

	return nil, models.Forbidden("not a member of this project")
}

// ListProjectsForUser returns every project the user owns or belongs to.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"ownerId": userID},
		{"members.userId": userID},
	}}

	cursor, err := s.Projects.Find(ctx, filter)
	if err != nil {
		return nil, models.Internal("failed to fetch projects", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, models.Internal("failed to decode projects", err)
	}
	return projects, nil
}

// UpdateProject merges an allow-listed update.
func (s *ProjectService) UpdateProject(ctx context.Context, actor *models.User, id primitive.ObjectID, upd ProjectUpdate) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return nil, err
	}
	if !access.AtLeast(models.ProjectRoleAdmin) {
		return nil, models.Forbidden("only project admins can update the project")
	}

	if err := ApplyProjectUpdate(project, upd); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()

	if _, err := s.Projects.ReplaceOne(ctx, bson.M{"_id": id}, project); err != nil {
		return nil, models.Internal("failed to update project", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "project.update", TargetType: "project", TargetID: id.Hex()})
	return project, nil
}

// DeleteProject removes the project and everything under it: tasks with
// their comments, attachments and time logs, plus every back-reference.
func (s *ProjectService) DeleteProject(ctx context.Context, actor *models.User, id primitive.ObjectID, comments, attachments, timeLogs *mongo.Collection) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if project.OwnerID != actor.ID && !actor.IsGlobalAdmin() {
		return models.Forbidden("only the project owner can delete the project")
	}

	cursor, err := s.Tasks.Find(ctx, bson.M{"projectId": id})
	if err != nil {
		return models.Internal("failed to fetch project tasks", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return models.Internal("failed to decode project tasks", err)
	}

	taskIDs := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	if len(taskIDs) > 0 {
		taskFilter := bson.M{"taskId": bson.M{"$in": taskIDs}}
		if _, err := comments.DeleteMany(ctx, taskFilter); err != nil {
			return models.Internal("failed to delete task comments", err)
		}

		attCursor, err := attachments.Find(ctx, taskFilter)
		if err != nil {
			return models.Internal("failed to fetch task attachments", err)
		}
		var orphaned []models.Attachment
		if err := attCursor.All(ctx, &orphaned); err != nil {
			return models.Internal("failed to decode task attachments", err)
		}
		removeAttachmentBlobs(s.Store, orphaned)
		if _, err := attachments.DeleteMany(ctx, taskFilter); err != nil {
			return models.Internal("failed to delete task attachments", err)
		}
		if _, err := timeLogs.DeleteMany(ctx, taskFilter); err != nil {
			return models.Internal("failed to delete task time logs", err)
		}

		refPull := bson.M{"$pull": bson.M{
			"assignedTasks": bson.M{"$in": taskIDs},
			"watchingTasks": bson.M{"$in": taskIDs},
		}}
		if _, err := s.Users.UpdateMany(ctx, bson.M{}, refPull); err != nil {
			return models.Internal("failed to remove task references", err)
		}

		if _, err := s.Tasks.DeleteMany(ctx, bson.M{"projectId": id}); err != nil {
			return models.Internal("failed to delete project tasks", err)
		}
	}

	if _, err := s.Users.UpdateMany(ctx, bson.M{"projects": id}, bson.M{"$pull": bson.M{"projects": id}}); err != nil {
		return models.Internal("failed to remove project references", err)
	}
	if project.TeamID != nil {
		if _, err := s.Teams.UpdateOne(ctx, bson.M{"_id": *project.TeamID}, bson.M{"$pull": bson.M{"projects": bson.M{"projectId": id}}}); err != nil {
			return models.Internal("failed to unlink project from team", err)
		}
	}

	if _, err := s.Projects.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return models.Internal("failed to delete project", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "project.delete", TargetType: "project", TargetID: id.Hex()})
	return nil
}

// AddMember adds a user to the project member list.
func (s *ProjectService) AddMember(ctx context.Context, actor *models.User, projectID, userID primitive.ObjectID, role string, perms models.ProjectPermissions) error {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.CanInviteMembers() {
		return models.Forbidden("missing permission to invite members")
	}
	if role == "" {
		role = models.ProjectRoleEditor
	}
	if !ValidProjectRole(role) {
		return models.Validation("invalid project role: " + role)
	}
	if userID == project.OwnerID {
		return models.Conflict("user already owns this project")
	}
	for _, m := range project.Members {
		if m.UserID == userID {
			return models.Conflict("user is already a project member")
		}
	}

	var invited models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&invited); err != nil {
		return models.NotFound("user not found")
	}

	member := models.ProjectMember{
		UserID:      userID,
		Role:        role,
		Permissions: perms,
		AddedBy:     actor.ID,
		AddedAt:     time.Now(),
	}
	if _, err := s.Projects.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$push": bson.M{"members": member}}); err != nil {
		return models.Internal("failed to add member", err)
	}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"projects": projectID}}); err != nil {
		return models.Internal("failed to link project to user", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "project.add_member", TargetType: "project", TargetID: projectID.Hex(), Details: userID.Hex()})
	return nil
}

// RemoveMember drops a member; any member can remove themselves.
func (s *ProjectService) RemoveMember(ctx context.Context, actor *models.User, projectID, userID primitive.ObjectID) error {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if actor.ID != userID && !access.AtLeast(models.ProjectRoleAdmin) {
		return models.Forbidden("only project admins can remove other members")
	}
	if userID == project.OwnerID {
		return models.Validation("the project owner cannot be removed")
	}

	res, err := s.Projects.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$pull": bson.M{"members": bson.M{"userId": userID}}})
	if err != nil {
		return models.Internal("failed to remove member", err)
	}
	if res.ModifiedCount == 0 {
		return models.NotFound("member not found in project")
	}

	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"projects": projectID}}); err != nil {
		return models.Internal("failed to remove project reference", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "project.remove_member", TargetType: "project", TargetID: projectID.Hex(), Details: userID.Hex()})
	return nil
}

// UpdateMemberRole changes a member's role and permission flags.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, actor *models.User, projectID, userID primitive.ObjectID, role string, perms *models.ProjectPermissions) error {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.AtLeast(models.ProjectRoleAdmin) {
		return models.Forbidden("only project admins can change member roles")
	}
	if role != "" && !ValidProjectRole(role) {
		return models.Validation("invalid project role: " + role)
	}

	set := bson.M{}
	if role != "" {
		set["members.$.role"] = role
	}
	if perms != nil {
		set["members.$.permissions"] = *perms
	}
	if len(set) == 0 {
		return models.Validation("nothing to update")
	}

	res, err := s.Projects.UpdateOne(ctx,
		bson.M{"_id": projectID, "members.userId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return models.Internal("failed to update member", err)
	}
	if res.MatchedCount == 0 {
		return models.NotFound("member not found in project")
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "project.update_member", TargetType: "project", TargetID: projectID.Hex(), Details: userID.Hex()})
	return nil
}

// RecomputeProjectMetrics recounts the project's tasks and overwrites the
// stored metrics.
func (s *ProjectService) RecomputeProjectMetrics(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectMetrics, error) {
	return recomputeProjectMetrics(ctx, s.Tasks, s.Projects, projectID)
}

// recomputeProjectMetrics is the shared full-recount path triggered after
// every task mutation. Idempotent; safe to re-run at any time.
func recomputeProjectMetrics(ctx context.Context, tasks, projects *mongo.Collection, projectID primitive.ObjectID) (*models.ProjectMetrics, error) {
	total, err := tasks.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, models.Internal("failed to count tasks", err)
	}
	completed, err := tasks.CountDocuments(ctx, bson.M{"projectId": projectID, "status": models.StatusCompleted})
	if err != nil {
		return nil, models.Internal("failed to count completed tasks", err)
	}

	metrics := models.ProjectMetrics{
		TotalTasks:     int(total),
		CompletedTasks: int(completed),
		LastActivity:   time.Now(),
	}
	if _, err := projects.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": bson.M{"metrics": metrics}}); err != nil {
		return nil, models.Internal("failed to store project metrics", err)
	}
	return &metrics, nil
}

// recomputeMetricsBestEffort logs instead of failing when the metrics
// recount after a committed primary write cannot complete.
func recomputeMetricsBestEffort(ctx context.Context, tasks, projects *mongo.Collection, projectID primitive.ObjectID) {
	if _, err := recomputeProjectMetrics(ctx, tasks, projects, projectID); err != nil {
		logging.Logger.Warnf("Event ID: METRICS_RECOMPUTE_FAILED, Description: Project %s metrics recompute failed after a committed write: %v", projectID.Hex(), err)
	}
}
