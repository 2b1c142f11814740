package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/service"
)

// StatisticsHandler handles the aggregate metrics endpoint
type StatisticsHandler struct {
	statisticsSvc *service.StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statisticsSvc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsSvc: statisticsSvc}
}

// Get handles GET /v1/questionnaires/{id}/statistics. A questionnaire with
// no completed responses yet answers 404; clients show an empty state.
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statisticsSvc.ComputeStatistics(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
