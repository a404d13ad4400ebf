package handlers

import (
	"net/http"

	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
)

type TeamHandler struct {
	TeamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{TeamService: teamService}
}

// CreateTeam creates a team owned by the caller.
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	team, err := h.TeamService.CreateTeam(r.Context(), actor, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// GetTeam returns a team the caller belongs to.
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	team, err := h.TeamService.GetTeam(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// UpdateTeam renames a team.
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	team, err := h.TeamService.UpdateTeam(r.Context(), actor, id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// DeleteTeam removes a team; linked projects become personal.
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.DeleteTeam(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "team deleted"})
}

// InviteMember invites a user into the team.
func (h *TeamHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	teamID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		UserID      string                 `json:"userId"`
		Role        string                 `json:"role,omitempty"`
		Permissions models.TeamPermissions `json:"permissions,omitempty"`
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

	if err := h.TeamService.InviteMember(r.Context(), actor, teamID, userID, req.Role, req.Permissions); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "invite sent"})
}

// RespondToInvite accepts or rejects one of the caller's pending invites.
func (h *TeamHandler) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	inviteID, err := pathID(mux.Vars(r), "inviteId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.RespondToInvite(r.Context(), actor, inviteID, req.Accept); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invite answered"})
}

// RemoveMember drops a member from the team.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	teamID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(vars, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.RemoveMember(r.Context(), actor, teamID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}

// UpdateMemberRole changes a member's role or permission flags.
func (h *TeamHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	teamID, err := pathID(vars, "id")
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
		Role        string                  `json:"role,omitempty"`
		Permissions *models.TeamPermissions `json:"permissions,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.UpdateMemberRole(r.Context(), actor, teamID, userID, req.Role, req.Permissions); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member updated"})
}

// LinkProject attaches an existing project to the team.
func (h *TeamHandler) LinkProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	teamID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	projectID, err := pathID(vars, "projectId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.LinkProject(r.Context(), actor, teamID, projectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project linked"})
}

// UnlinkProject detaches a project from the team.
func (h *TeamHandler) UnlinkProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	vars := mux.Vars(r)
	teamID, err := pathID(vars, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	projectID, err := pathID(vars, "projectId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TeamService.UnlinkProject(r.Context(), actor, teamID, projectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project unlinked"})
}

// TaskStats recounts and returns the team's task counters.
func (h *TeamHandler) TaskStats(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	teamID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.TeamService.RecomputeTeamTaskStats(r.Context(), actor, teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
