package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/workflow"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Success: false, Message: message})
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a persistence or programming failure and
// surfaces as a generic 500 without leaking internals.
func respondWorkflowError(w http.ResponseWriter, err error) {
	var verr *workflow.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	var uerr *workflow.UnauthorizedError
	if errors.As(err, &uerr) {
		respondError(w, http.StatusForbidden, uerr.Reason)
		return
	}
	var nerr *workflow.NotFoundError
	if errors.As(err, &nerr) {
		respondError(w, http.StatusNotFound, nerr.Error())
		return
	}
	var terr *workflow.InvalidTransitionError
	if errors.As(err, &terr) {
		respondError(w, http.StatusBadRequest, terr.Error())
		return
	}

	log.Printf("unexpected error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// pathID parses the {name} route variable as an ObjectID, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, vars map[string]string, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
