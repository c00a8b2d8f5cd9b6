package handler

import (
	"log/slog"
	"net/http"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/report"
	"github.com/mkarim/pettrack/internal/service"
)

// ReportHandler exposes the rendered weekly report image.
type ReportHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

func NewReportHandler(stats *service.StatsService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{stats: stats, logger: logger}
}

// HandleWeeklyReport renders the weekly report as a PNG.
//
// HTTP: GET /export/weekly-report.png?start=YYYY-MM-DD
// A missing or unparseable start silently falls back to today (UTC)
// rather than failing; the endpoint always produces an image for an
// authenticated caller.
func (h *ReportHandler) HandleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	start := model.Today()
	if raw := r.URL.Query().Get("start"); raw != "" {
		if parsed, err := model.ParseDate(raw); err == nil {
			start = parsed
		}
	}

	weekly, err := h.stats.Weekly(r.Context(), userID, start)
	if err != nil {
		writeError(w, err)
		return
	}

	png, err := report.Render(weekly)
	if err != nil {
		h.logger.Error("failed to render weekly report",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write report image", slog.String("error", err.Error()))
	}
}
