package handler

import (
	"log/slog"
	"net/http"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/service"
)

// StatsHandler exposes the daily and weekly aggregation endpoints.
type StatsHandler struct {
	svc    *service.StatsService
	logger *slog.Logger
}

func NewStatsHandler(svc *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

// HandleDaily returns one day's aggregated stats.
//
// HTTP: GET /stats/daily?date=YYYY-MM-DD
func (h *StatsHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	date, err := model.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("date", "invalid date format"))
		return
	}

	stats, err := h.svc.Daily(r.Context(), userID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleWeekly returns the 7-day report starting at the given date.
//
// HTTP: GET /stats/weekly?start=YYYY-MM-DD
func (h *StatsHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	start, err := model.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("start", "invalid date format"))
		return
	}

	report, err := h.svc.Weekly(r.Context(), userID, start)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
