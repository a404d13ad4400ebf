package services

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/audit"
	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/notify"
	"github.com/Tanish6738/project-management-sub001/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskService struct {
	Tasks       *mongo.Collection
	Projects    *mongo.Collection
	Users       *mongo.Collection
	Comments    *mongo.Collection
	Attachments *mongo.Collection
	TimeLogs    *mongo.Collection
	Store       storage.FileStore
	Audit       audit.Recorder
	Notifier    *notify.Notifier
	Graph       *GraphService
}

func NewTaskService(tasks, projects, users, comments, attachments, timeLogs *mongo.Collection, store storage.FileStore, recorder audit.Recorder, notifier *notify.Notifier, graph *GraphService) *TaskService {
	return &TaskService{
		Tasks:       tasks,
		Projects:    projects,
		Users:       users,
		Comments:    comments,
		Attachments: attachments,
		TimeLogs:    timeLogs,
		Store:       store,
		Audit:       recorder,
		Notifier:    notifier,
		Graph:       graph,
	}
}

// TaskInput carries the fields accepted at creation time.
type TaskInput struct {
	ProjectID   primitive.ObjectID  `json:"projectId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssigneeID  *primitive.ObjectID `json:"assigneeId,omitempty"`
	Status      string              `json:"status,omitempty"`
	Priority    string              `json:"priority,omitempty"`
	Deadline    time.Time           `json:"deadline,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Estimated   int                 `json:"estimated,omitempty"`
}

func (s *TaskService) getTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NotFound("task not found")
		}
		return nil, models.Internal("error fetching task", err)
	}
	return &task, nil
}

func (s *TaskService) getProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NotFound("project not found")
		}
		return nil, models.Internal("error fetching project", err)
	}
	return &project, nil
}

// newTask builds a task document from validated input.
func (s *TaskService) newTask(actor *models.User, input TaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, models.Validation("task title is required")
	}

	status := models.StatusPending
	if input.Status != "" {
		normalized, err := models.NormalizeTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = normalized
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validTaskPriorities[priority] {
		return nil, models.Validation("invalid task priority: " + priority)
	}
	if input.Estimated < 0 {
		return nil, models.Validation("estimated time cannot be negative")
	}

	now := time.Now()
	return &models.Task{
		ID:           primitive.NewObjectID(),
		ProjectID:    input.ProjectID,
		Title:        input.Title,
		Description:  input.Description,
		AssigneeID:   input.AssigneeID,
		Status:       status,
		Priority:     priority,
		Deadline:     input.Deadline,
		DependsOn:    []primitive.ObjectID{},
		Visible:      true,
		Tags:         input.Tags,
		Subtasks:     []primitive.ObjectID{},
		Attachments:  []primitive.ObjectID{},
		Comments:     []primitive.ObjectID{},
		Watchers:     []primitive.ObjectID{},
		TimeTracking: models.TimeTracking{Estimated: input.Estimated, Entries: []models.TimeEntry{}},
		CreatedBy:    actor.ID,
		UpdatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CreateTask persists a new top-level task under a project.
func (s *TaskService) CreateTask(ctx context.Context, actor *models.User, input TaskInput) (*models.Task, error) {
	project, err := s.getProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return nil, err
	}
	if !access.CanEditTasks() {
		return nil, models.Forbidden("missing permission to create tasks in this project")
	}

	task, err := s.newTask(actor, input)
	if err != nil {
		return nil, err
	}

	if task.AssigneeID != nil {
		var assignee models.User
		if err := s.Users.FindOne(ctx, bson.M{"_id": *task.AssigneeID}).Decode(&assignee); err != nil {
			return nil, models.NotFound("assignee not found")
		}
	}

	if _, err := s.Tasks.InsertOne(ctx, task); err != nil {
		return nil, models.Internal("failed to create task", err)
	}

	if task.AssigneeID != nil {
		if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": *task.AssigneeID}, bson.M{"$addToSet": bson.M{"assignedTasks": task.ID}}); err != nil {
			logging.Logger.Warnf("Event ID: ASSIGNEE_REF_FAILED, Description: Task %s created but assignee reference update failed: %v", task.ID.Hex(), err)
		}
	}

	s.Graph.EnsureTaskNode(ctx, task.ID)
	recomputeMetricsBestEffort(ctx, s.Tasks, s.Projects, task.ProjectID)
	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.create", TargetType: "task", TargetID: task.ID.Hex(), Details: task.Title})
	return task, nil
}

// CreateSubtask persists a task nested under a parent. The subtask always
// carries the parent's project reference.
func (s *TaskService) CreateSubtask(ctx context.Context, actor *models.User, parentID primitive.ObjectID, input TaskInput) (*models.Task, error) {
	parent, err := s.getTask(ctx, parentID)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, parent.ProjectID)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return nil, err
	}
	if !access.CanEditTasks() {
		return nil, models.Forbidden("missing permission to create tasks in this project")
	}

	input.ProjectID = parent.ProjectID
	task, err := s.newTask(actor, input)
	if err != nil {
		return nil, err
	}
	task.IsSubtask = true
	task.ParentTaskID = &parentID

	if task.AssigneeID != nil {
		var assignee models.User
		if err := s.Users.FindOne(ctx, bson.M{"_id": *task.AssigneeID}).Decode(&assignee); err != nil {
			return nil, models.NotFound("assignee not found")
		}
	}

	if _, err := s.Tasks.InsertOne(ctx, task); err != nil {
		return nil, models.Internal("failed to create subtask", err)
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$push": bson.M{"subtasks": task.ID}}); err != nil {
		return nil, models.Internal("failed to link subtask to parent", err)
	}

	if task.AssigneeID != nil {
		if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": *task.AssigneeID}, bson.M{"$addToSet": bson.M{"assignedTasks": task.ID}}); err != nil {
			logging.Logger.Warnf("Event ID: ASSIGNEE_REF_FAILED, Description: Subtask %s created but assignee reference update failed: %v", task.ID.Hex(), err)
		}
	}

	s.Graph.EnsureTaskNode(ctx, task.ID)
	recomputeMetricsBestEffort(ctx, s.Tasks, s.Projects, task.ProjectID)
	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.create_subtask", TargetType: "task", TargetID: task.ID.Hex(), Details: "parent=" + parentID.Hex()})
	return task, nil
}

// GetTask loads a task for any project member.
func (s *TaskService) GetTask(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksByProject returns all tasks under a project.
func (s *TaskService) ListTasksByProject(ctx context.Context, actor *models.User, projectID primitive.ObjectID) ([]models.Task, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := EvaluateProjectAccess(actor, project); err != nil {
		return nil, err
	}

	cursor, err := s.Tasks.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, models.Internal("failed to fetch tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, models.Internal("failed to decode tasks", err)
	}
	return tasks, nil
}

// UpdateTask merges an allow-listed update, moves assignee references, and
// fans out watcher notifications. Watcher delivery is best effort.
func (s *TaskService) UpdateTask(ctx context.Context, actor *models.User, id primitive.ObjectID, upd TaskUpdate) (*models.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return nil, err
	}
	if !access.CanEditTasks() {
		return nil, models.Forbidden("missing permission to edit tasks in this project")
	}

	previousAssignee := task.AssigneeID

	completedNow, err := ApplyTaskUpdate(task, upd)
	if err != nil {
		return nil, err
	}

	if upd.AssigneeID != nil {
		if *upd.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			newID, err := primitive.ObjectIDFromHex(*upd.AssigneeID)
			if err != nil {
				return nil, models.Validation("invalid assignee ID format")
			}
			var assignee models.User
			if err := s.Users.FindOne(ctx, bson.M{"_id": newID}).Decode(&assignee); err != nil {
				return nil, models.NotFound("assignee not found")
			}
			task.AssigneeID = &newID
		}
	}

	task.UpdatedBy = actor.ID
	task.UpdatedAt = time.Now()

	if _, err := s.Tasks.ReplaceOne(ctx, bson.M{"_id": id}, task); err != nil {
		return nil, models.Internal("failed to update task", err)
	}

	// Move the task reference between the old and new assignee.
	if upd.AssigneeID != nil {
		if previousAssignee != nil && (task.AssigneeID == nil || *previousAssignee != *task.AssigneeID) {
			if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": *previousAssignee}, bson.M{"$pull": bson.M{"assignedTasks": id}}); err != nil {
				logging.Logger.Warnf("Event ID: ASSIGNEE_REF_FAILED, Description: Failed to pull task %s from previous assignee: %v", id.Hex(), err)
			}
		}
		if task.AssigneeID != nil && (previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
			if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": *task.AssigneeID}, bson.M{"$addToSet": bson.M{"assignedTasks": id}}); err != nil {
				logging.Logger.Warnf("Event ID: ASSIGNEE_REF_FAILED, Description: Failed to push task %s to new assignee: %v", id.Hex(), err)
			}
		}
	}

	if completedNow && task.AssigneeID != nil {
		if _, err := recomputeUserTaskStats(ctx, s.Tasks, s.Users, *task.AssigneeID); err != nil {
			logging.Logger.Warnf("Event ID: STATS_RECOMPUTE_FAILED, Description: Assignee stats recompute failed after task %s completion: %v", id.Hex(), err)
		}
	}

	if message, ok := CompletionNotice(task, completedNow); ok {
		watcherIDs := make([]string, 0, len(task.Watchers))
		for _, w := range task.Watchers {
			watcherIDs = append(watcherIDs, w.Hex())
		}
		s.Notifier.NotifyUsers(watcherIDs, message)
	}

	recomputeMetricsBestEffort(ctx, s.Tasks, s.Projects, task.ProjectID)
	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.update", TargetType: "task", TargetID: id.Hex()})
	return task, nil
}

// collectDescendants walks the subtask tree breadth-first and returns every
// descendant task id.
func (s *TaskService) collectDescendants(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var all []primitive.ObjectID
	frontier := []primitive.ObjectID{rootID}

	for len(frontier) > 0 {
		cursor, err := s.Tasks.Find(ctx, bson.M{"parentTaskId": bson.M{"$in": frontier}})
		if err != nil {
			return nil, models.Internal("failed to fetch subtasks", err)
		}
		var children []models.Task
		if err := cursor.All(ctx, &children); err != nil {
			return nil, models.Internal("failed to decode subtasks", err)
		}

		frontier = frontier[:0]
		for _, c := range children {
			all = append(all, c.ID)
			frontier = append(frontier, c.ID)
		}
	}
	return all, nil
}

// DeleteTask removes a task and, recursively, all of its descendants.
// Every deleted task is scrubbed from assignee and watcher reference lists
// and loses its comments, attachments and time logs.
func (s *TaskService) DeleteTask(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.CanDeleteTasks() {
		return models.Forbidden("missing permission to delete tasks in this project")
	}

	descendants, err := s.collectDescendants(ctx, id)
	if err != nil {
		return err
	}
	doomed := append([]primitive.ObjectID{id}, descendants...)

	refPull := bson.M{"$pull": bson.M{
		"assignedTasks": bson.M{"$in": doomed},
		"watchingTasks": bson.M{"$in": doomed},
	}}
	if _, err := s.Users.UpdateMany(ctx, bson.M{}, refPull); err != nil {
		return models.Internal("failed to remove task references", err)
	}

	childFilter := bson.M{"taskId": bson.M{"$in": doomed}}
	if _, err := s.Comments.DeleteMany(ctx, childFilter); err != nil {
		return models.Internal("failed to delete task comments", err)
	}

	attCursor, err := s.Attachments.Find(ctx, childFilter)
	if err != nil {
		return models.Internal("failed to fetch task attachments", err)
	}
	var orphaned []models.Attachment
	if err := attCursor.All(ctx, &orphaned); err != nil {
		return models.Internal("failed to decode task attachments", err)
	}
	removeAttachmentBlobs(s.Store, orphaned)
	if _, err := s.Attachments.DeleteMany(ctx, childFilter); err != nil {
		return models.Internal("failed to delete task attachments", err)
	}
	if _, err := s.TimeLogs.DeleteMany(ctx, childFilter); err != nil {
		return models.Internal("failed to delete task time logs", err)
	}

	if task.ParentTaskID != nil {
		if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": *task.ParentTaskID}, bson.M{"$pull": bson.M{"subtasks": id}}); err != nil {
			return models.Internal("failed to unlink subtask from parent", err)
		}
	}

	if _, err := s.Tasks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": doomed}}); err != nil {
		return models.Internal("failed to delete tasks", err)
	}

	for _, taskID := range doomed {
		s.Graph.RemoveTaskNode(ctx, taskID)
	}

	recomputeMetricsBestEffort(ctx, s.Tasks, s.Projects, task.ProjectID)
	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.delete", TargetType: "task", TargetID: id.Hex()})
	return nil
}

// ReorderSubtasks accepts a proposed order only if it is a set-permutation
// of the stored subtask list; otherwise the stored order is unchanged.
func (s *TaskService) ReorderSubtasks(ctx context.Context, actor *models.User, parentID primitive.ObjectID, proposed []primitive.ObjectID) error {
	parent, err := s.getTask(ctx, parentID)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, parent.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.CanEditTasks() {
		return models.Forbidden("missing permission to edit tasks in this project")
	}

	if err := ValidateReorder(parent.Subtasks, proposed); err != nil {
		return err
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$set": bson.M{"subtasks": proposed, "updatedAt": time.Now()}}); err != nil {
		return models.Internal("failed to reorder subtasks", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.reorder_subtasks", TargetType: "task", TargetID: parentID.Hex()})
	return nil
}

// TaskTree builds the recursive view of a task and its descendants, with
// progress computed per node.
func (s *TaskService) TaskTree(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.TaskTree, error) {
	task, err := s.GetTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.buildTree(ctx, task)
}

func (s *TaskService) buildTree(ctx context.Context, task *models.Task) (*models.TaskTree, error) {
	var children []models.Task
	if len(task.Subtasks) > 0 {
		cursor, err := s.Tasks.Find(ctx, bson.M{"_id": bson.M{"$in": task.Subtasks}})
		if err != nil {
			return nil, models.Internal("failed to fetch subtasks", err)
		}
		if err := cursor.All(ctx, &children); err != nil {
			return nil, models.Internal("failed to decode subtasks", err)
		}
		// Preserve the stored order.
		byID := make(map[primitive.ObjectID]models.Task, len(children))
		for _, c := range children {
			byID[c.ID] = c
		}
		ordered := make([]models.Task, 0, len(children))
		for _, cid := range task.Subtasks {
			if c, ok := byID[cid]; ok {
				ordered = append(ordered, c)
			}
		}
		children = ordered
	}

	tree := &models.TaskTree{
		Task:     *task,
		Progress: ComputeProgress(task, children),
	}
	for i := range children {
		child := children[i]
		subtree, err := s.buildTree(ctx, &child)
		if err != nil {
			return nil, err
		}
		tree.Subtasks = append(tree.Subtasks, *subtree)
	}
	return tree, nil
}

// AddTaskWatcher subscribes a user to a task. Duplicate adds are a Conflict.
func (s *TaskService) AddTaskWatcher(ctx context.Context, actor *models.User, taskID, userID primitive.ObjectID) error {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if actor.ID != userID && !access.AtLeast(models.ProjectRoleAdmin) {
		return models.Forbidden("only project admins can add other watchers")
	}

	if _, err := AddWatcher(task.Watchers, userID); err != nil {
		return err
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$addToSet": bson.M{"watchers": userID}}); err != nil {
		return models.Internal("failed to add watcher", err)
	}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"watchingTasks": taskID}}); err != nil {
		return models.Internal("failed to add watching reference", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.add_watcher", TargetType: "task", TargetID: taskID.Hex(), Details: userID.Hex()})
	return nil
}

// RemoveTaskWatcher unsubscribes a user; removing an absent watcher is a
// no-op.
func (s *TaskService) RemoveTaskWatcher(ctx context.Context, actor *models.User, taskID, userID primitive.ObjectID) error {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if actor.ID != userID && !access.AtLeast(models.ProjectRoleAdmin) {
		return models.Forbidden("only project admins can remove other watchers")
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$pull": bson.M{"watchers": userID}}); err != nil {
		return models.Internal("failed to remove watcher", err)
	}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"watchingTasks": taskID}}); err != nil {
		return models.Internal("failed to remove watching reference", err)
	}
	return nil
}

// AddDependency records that a task depends on another. Cycle and existence
// checks run in the dependency graph when one is configured; self and
// duplicate edges are always rejected.
func (s *TaskService) AddDependency(ctx context.Context, actor *models.User, taskID, dependsOnID primitive.ObjectID) error {
	if taskID == dependsOnID {
		return models.Validation("a task cannot depend on itself")
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.getTask(ctx, dependsOnID); err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.CanEditTasks() {
		return models.Forbidden("missing permission to edit tasks in this project")
	}

	if ContainsID(task.DependsOn, dependsOnID) {
		return models.Conflict("dependency already exists")
	}

	if err := s.Graph.AddDependency(ctx, taskID, dependsOnID); err != nil {
		return err
	}

	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$addToSet": bson.M{"dependsOn": dependsOnID}}); err != nil {
		return models.Internal("failed to store dependency", err)
	}

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.add_dependency", TargetType: "task", TargetID: taskID.Hex(), Details: dependsOnID.Hex()})
	return nil
}

// RemoveDependency drops a dependency edge.
func (s *TaskService) RemoveDependency(ctx context.Context, actor *models.User, taskID, dependsOnID primitive.ObjectID) error {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	access, err := EvaluateProjectAccess(actor, project)
	if err != nil {
		return err
	}
	if !access.CanEditTasks() {
		return models.Forbidden("missing permission to edit tasks in this project")
	}

	res, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$pull": bson.M{"dependsOn": dependsOnID}})
	if err != nil {
		return models.Internal("failed to remove dependency", err)
	}
	if res.ModifiedCount == 0 {
		return models.NotFound("dependency not found")
	}

	s.Graph.RemoveDependency(ctx, taskID, dependsOnID)

	s.Audit.Record(ctx, audit.Event{ActorID: actor.ID.Hex(), Action: "task.remove_dependency", TargetType: "task", TargetID: taskID.Hex(), Details: dependsOnID.Hex()})
	return nil
}

// ListDependencies returns the tasks this task depends on.
func (s *TaskService) ListDependencies(ctx context.Context, actor *models.User, taskID primitive.ObjectID) ([]models.Task, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if len(task.DependsOn) == 0 {
		return []models.Task{}, nil
	}

	cursor, err := s.Tasks.Find(ctx, bson.M{"_id": bson.M{"$in": task.DependsOn}})
	if err != nil {
		return nil, models.Internal("failed to fetch dependencies", err)
	}
	defer cursor.Close(ctx)

	var deps []models.Task
	if err := cursor.All(ctx, &deps); err != nil {
		return nil, models.Internal("failed to decode dependencies", err)
	}
	return deps, nil
}
