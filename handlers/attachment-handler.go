package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/models"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
)

// maxUploadBytes caps a single multipart upload at 32 MiB.
const maxUploadBytes = 32 << 20

type AttachmentHandler struct {
	AttachmentService *services.AttachmentService
}

func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{AttachmentService: attachmentService}
}

// Upload accepts a multipart form with a "file" part and attaches it to the
// task.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, models.Validation("invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, models.Validation("missing file part"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	attachment, err := h.AttachmentService.Upload(r.Context(), actor, taskID, header.Filename, mimeType, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}

// List returns a task's attachment metadata.
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	attachments, err := h.AttachmentService.List(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

// Download streams the stored blob back to the client.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	attachmentID, err := pathID(mux.Vars(r), "attachmentId")
	if err != nil {
		writeError(w, err)
		return
	}

	attachment, blob, err := h.AttachmentService.Download(r.Context(), actor, attachmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer blob.Close()

	contentType := attachment.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	}

	if _, err := io.Copy(w, blob); err != nil {
		logging.Logger.Warnf("Event ID: ATTACHMENT_STREAM_FAILED, Description: Streaming attachment %s aborted: %v", attachmentID.Hex(), err)
	}
}

// Delete removes an attachment and its stored blob.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	attachmentID, err := pathID(mux.Vars(r), "attachmentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.AttachmentService.Delete(r.Context(), actor, attachmentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attachment deleted"})
}
