package handlers

import (
	"net/http"

	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	TaskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{TaskService: taskService}
}

// CreateTask creates a top-level task under a project.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var input services.TaskInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.TaskService.CreateTask(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// CreateSubtask nests a new task under a parent.
func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	parentID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var input services.TaskInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.TaskService.CreateSubtask(r.Context(), actor, parentID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.TaskService.GetTask(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ListTasks returns all tasks under a project.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	projectID, err := pathID(mux.Vars(r), "projectId")
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.TaskService.ListTasksByProject(r.Context(), actor, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// UpdateTask merges an allow-listed update.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd services.TaskUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), actor, id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task and its whole subtask tree.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// ReorderSubtasks replaces the subtask ordering with a permutation of it.
func (h *TaskHandler) ReorderSubtasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	parentID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Order []string `json:"order"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	proposed := make([]primitive.ObjectID, 0, len(req.Order))
	for _, raw := range req.Order {
		id, err := hexID(raw, "order entry")
		if err != nil {
			writeError(w, err)
			return
		}
		proposed = append(proposed, id)
	}

	if err := h.TaskService.ReorderSubtasks(r.Context(), actor, parentID, proposed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "subtasks reordered"})
}

// TaskTree returns the recursive view of a task with per-node progress.
func (h *TaskHandler) TaskTree(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tree, err := h.TaskService.TaskTree(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// watcherTarget resolves the watcher user id: the caller by default, or an
// explicit body field when an admin manages someone else's subscription.
func watcherTarget(r *http.Request, actor *models.User) (primitive.ObjectID, error) {
	var req struct {
		UserID string `json:"userId,omitempty"`
	}
	// An empty body targets the caller.
	if err := decodeBody(r, &req); err != nil || req.UserID == "" {
		return actor.ID, nil
	}
	return hexID(req.UserID, "userId")
}

// AddWatcher subscribes a user to the task.
func (h *TaskHandler) AddWatcher(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := watcherTarget(r, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.AddTaskWatcher(r.Context(), actor, taskID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "watcher added"})
}

// RemoveWatcher unsubscribes a user from the task.
func (h *TaskHandler) RemoveWatcher(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	taskID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(vars, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.RemoveTaskWatcher(r.Context(), actor, taskID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "watcher removed"})
}

// AddDependency records that the task depends on another task.
func (h *TaskHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		DependsOn string `json:"dependsOn"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dependsOnID, err := hexID(req.DependsOn, "dependsOn")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.AddDependency(r.Context(), actor, taskID, dependsOnID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "dependency added"})
}

// RemoveDependency drops a dependency edge.
func (h *TaskHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	taskID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	dependsOnID, err := pathID(vars, "dependsOnId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TaskService.RemoveDependency(r.Context(), actor, taskID, dependsOnID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "dependency removed"})
}

// ListDependencies returns the tasks this task depends on.
func (h *TaskHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	deps, err := h.TaskService.ListDependencies(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deps)
}
