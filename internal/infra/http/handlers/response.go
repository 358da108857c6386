package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeUsecaseError maps the error taxonomy onto HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case entity.IsNotFound(err):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case usecase.IsConfigurationError(err):
		writeErrorResponse(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
