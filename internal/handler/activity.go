package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/service"
)

// ActivityHandler exposes activity logging and listing.
type ActivityHandler struct {
	svc    *service.ActivityService
	logger *slog.Logger
}

func NewActivityHandler(svc *service.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

type activityCreateRequest struct {
	PetID     *string `json:"pet_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at"`
	Note      *string `json:"note"`
	Source    string  `json:"source"`
}

// timestampLayouts accepted for started_at/ended_at. Offset-less
// values are taken as UTC; offset-carrying values are converted to UTC
// by the service.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// HandleCreate logs an activity for the caller.
//
// HTTP: POST /activities {pet_id?, type, amount, unit, started_at,
// ended_at?, note?, source?}
// A pet_id owned by another user returns 404; a unit that does not
// match the type returns 400.
func (h *ActivityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req activityCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if req.StartedAt == "" {
		writeError(w, apperror.ValidationFailed("started_at", "started_at is required"))
		return
	}
	startedAt, err := parseTimestamp(req.StartedAt)
	if err != nil {
		writeError(w, apperror.ValidationFailed("started_at", "invalid started_at timestamp"))
		return
	}

	var endedAt *time.Time
	if req.EndedAt != nil && *req.EndedAt != "" {
		t, err := parseTimestamp(*req.EndedAt)
		if err != nil {
			writeError(w, apperror.ValidationFailed("ended_at", "invalid ended_at timestamp"))
			return
		}
		endedAt = &t
	}

	activity, err := h.svc.Create(r.Context(), userID, service.ActivityInput{
		PetID:     req.PetID,
		Type:      req.Type,
		Amount:    req.Amount,
		Unit:      req.Unit,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Note:      req.Note,
		Source:    req.Source,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

// HandleList returns the caller's activities, most recent start first.
//
// HTTP: GET /activities
func (h *ActivityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	activities, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}
