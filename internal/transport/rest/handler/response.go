package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
)

// ResponseHandler handles respondent progress and submission endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// ResponseRequest is the request body for progress saves and submits
type ResponseRequest struct {
	SessionID    string         `json:"sessionId"`
	Answers      []model.Answer `json:"answers"`
	TimeSpentSec int            `json:"timeSpent"`
}

// NewSession handles POST /v1/sessions: issues a fresh opaque session id the
// client uses to correlate its draft across requests.
func (h *ResponseHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": service.NewSessionID()})
}

// SaveProgress handles POST /v1/questionnaires/{id}/progress
func (h *ResponseHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	questionnaireID := mux.Vars(r)["id"]

	var req ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	if err := h.responseSvc.SaveProgress(r.Context(), req.SessionID, questionnaireID, req.Answers, req.TimeSpentSec); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "progress saved"})
}

// GetProgress handles GET /v1/questionnaires/{id}/progress?sessionId=...
func (h *ResponseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	questionnaireID := mux.Vars(r)["id"]
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	draft, err := h.responseSvc.GetProgress(r.Context(), sessionID, questionnaireID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// Submit handles POST /v1/questionnaires/{id}/submit
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	questionnaireID := mux.Vars(r)["id"]

	var req ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	resp, err := h.responseSvc.Submit(r.Context(), req.SessionID, questionnaireID, req.Answers, req.TimeSpentSec)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "questionnaire submitted",
		"response": resp,
	})
}
