package handlers

import (
	"net/http"

	"github.com/Tanish6738/project-management-sub001/middleware"
	"github.com/Tanish6738/project-management-sub001/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentHandler struct {
	CommentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{CommentService: commentService}
}

// CreateComment posts a comment or a one-level reply on a task.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Content  string `json:"content"`
		ParentID string `json:"parentId,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := hexID(req.ParentID, "parentId")
		if err != nil {
			writeError(w, err)
			return
		}
		parentID = &id
	}

	comment, err := h.CommentService.CreateComment(r.Context(), actor, taskID, req.Content, parentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ListComments returns all comments of a task.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	taskID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.CommentService.ListComments(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// DeleteComment removes a comment and its replies.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	commentID, err := pathID(mux.Vars(r), "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.CommentService.DeleteComment(r.Context(), actor, commentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
