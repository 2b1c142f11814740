package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// QuestionnaireHandler handles questionnaire CRUD and catalog endpoints
type QuestionnaireHandler struct {
	questionnaireSvc *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(questionnaireSvc *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireSvc: questionnaireSvc}
}

// QuestionnaireRequest is the request body for creating or replacing a
// questionnaire
type QuestionnaireRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// Create handles POST /v1/questionnaires
func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	if middleware.GetEditorID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questionnaireSvc.Create(r.Context(), &model.Questionnaire{
		Name:        req.Name,
		Description: req.Description,
		Questions:   req.Questions,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

// Get handles GET /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionnaireSvc.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Update handles PUT /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Update(w http.ResponseWriter, r *http.Request) {
	if middleware.GetEditorID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questionnaireSvc.Update(r.Context(), &model.Questionnaire{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
		Questions:   req.Questions,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if middleware.GetEditorID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.questionnaireSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "questionnaire deleted"})
}

// List handles GET /v1/questionnaires
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sortKey, err := model.ParseCatalogSortKey(query.Get("sortBy"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	opts := model.ListOptions{
		SortKey:    sortKey,
		Descending: query.Get("order") != "asc",
		LastItemID: query.Get("lastItemId"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		opts.Limit = limit
	}

	page, err := h.questionnaireSvc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
