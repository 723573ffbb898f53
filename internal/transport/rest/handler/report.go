package handler

import (
	"errors"
	"net/http"
	"strconv"

	"screenbot/internal/model"
	"screenbot/internal/repository"
	"screenbot/internal/service"
	"screenbot/internal/transport/rest/middleware"
)

// ReportHandler serves screening statistics to the admin
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// StatsResponse carries the summary and its chat rendering
type StatsResponse struct {
	Summary *model.Summary `json:"summary"`
	Text    string         `json:"text"`
}

// GetStats handles GET /v1/admin/stats?top=true|false
func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAdminID(r.Context()) == 0 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	topOnly := false
	if v := r.URL.Query().Get("top"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "top must be true or false")
			return
		}
		topOnly = parsed
	}

	summary, err := h.reportSvc.Stats(r.Context(), topOnly)
	var storeErr *repository.StoreError
	if errors.As(err, &storeErr) {
		writeError(w, http.StatusBadGateway, model.Truncate(err.Error(), 300))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Summary: summary,
		Text:    h.reportSvc.RenderSummary(*summary),
	})
}
