package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
		}
	}
}

// writeError maps a service error onto an HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch models.KindOf(err) {
	case models.KindValidation:
		status = http.StatusBadRequest
	case models.KindUnauthorized:
		status = http.StatusUnauthorized
	case models.KindForbidden:
		status = http.StatusForbidden
	case models.KindNotFound:
		status = http.StatusNotFound
	case models.KindConflict:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// pathID parses a hex object id out of a mux route variable.
func pathID(vars map[string]string, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		return primitive.NilObjectID, models.Validation("invalid " + name + " format")
	}
	return id, nil
}

// hexID parses a hex object id carried in a request body field.
func hexID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.Validation("invalid " + field + " format")
	}
	return id, nil
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.Validation("invalid request body")
	}
	return nil
}
