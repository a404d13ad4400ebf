package handlers

import (
	"net/http"

	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectHandler struct {
	ProjectService *services.ProjectService

	// Cascade targets for project deletion.
	Comments    *mongo.Collection
	Attachments *mongo.Collection
	TimeLogs    *mongo.Collection
}

func NewProjectHandler(projectService *services.ProjectService, comments, attachments, timeLogs *mongo.Collection) *ProjectHandler {
	return &ProjectHandler{
		ProjectService: projectService,
		Comments:       comments,
		Attachments:    attachments,
		TimeLogs:       timeLogs,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var input services.ProjectInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// ListProjects returns every project the caller owns or belongs to.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	projects, err := h.ProjectService.ListProjectsForUser(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject returns a single project.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.ProjectService.GetProject(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// UpdateProject merges an allow-listed update.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd services.ProjectUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.ProjectService.UpdateProject(r.Context(), actor, id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject removes the project and everything under it.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectService.DeleteProject(r.Context(), actor, id, h.Comments, h.Attachments, h.TimeLogs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

// AddMember adds a user to the project.
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	projectID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		UserID      string                    `json:"userId"`
		Role        string                    `json:"role,omitempty"`
		Permissions models.ProjectPermissions `json:"permissions,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	userID, err := hexID(req.UserID, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectService.AddMember(r.Context(), actor, projectID, userID, req.Role, req.Permissions); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "member added"})
}

// RemoveMember drops a member from the project.
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	projectID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(vars, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectService.RemoveMember(r.Context(), actor, projectID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}

// UpdateMemberRole changes a member's role or permission flags.
func (h *ProjectHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	projectID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(vars, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Role        string                     `json:"role,omitempty"`
		Permissions *models.ProjectPermissions `json:"permissions,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectService.UpdateMemberRole(r.Context(), actor, projectID, userID, req.Role, req.Permissions); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member updated"})
}

// Metrics recounts and returns the project's task metrics.
func (h *ProjectHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.ProjectService.GetProject(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	metrics, err := h.ProjectService.RecomputeProjectMetrics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
