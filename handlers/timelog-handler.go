package handlers

import (
	"net/http"

	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
)

type TimeLogHandler struct {
	TimeLogService *services.TimeLogService
}

func NewTimeLogHandler(timeLogService *services.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{TimeLogService: timeLogService}
}

// Create records a time log against a task.
func (h *TimeLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var input services.TimeLogInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	log, err := h.TimeLogService.Create(r.Context(), actor, taskID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// List returns a task's time logs.
func (h *TimeLogHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	logs, err := h.TimeLogService.List(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Update edits a time log entry.
func (h *TimeLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	logID, err := pathID(mux.Vars(r), "logId")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd services.TimeLogUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	log, err := h.TimeLogService.Update(r.Context(), actor, logID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// Delete removes a time log entry.
func (h *TimeLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	logID, err := pathID(mux.Vars(r), "logId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.TimeLogService.Delete(r.Context(), actor, logID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "time log deleted"})
}
