package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/service"
)

// PetHandler exposes pet registration and listing.
type PetHandler struct {
	svc    *service.PetService
	logger *slog.Logger
}

func NewPetHandler(svc *service.PetService, logger *slog.Logger) *PetHandler {
	return &PetHandler{svc: svc, logger: logger}
}

type petCreateRequest struct {
	Name      string      `json:"name"`
	Species   *string     `json:"species"`
	Weight    *float64    `json:"weight"`
	Birthdate *model.Date `json:"birthdate"`
}

// HandleCreate registers a pet for the caller.
//
// HTTP: POST /pets {name, species?, weight?, birthdate?}
func (h *PetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req petCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	pet, err := h.svc.Create(r.Context(), userID, service.PetInput{
		Name:      req.Name,
		Species:   req.Species,
		Weight:    req.Weight,
		Birthdate: req.Birthdate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pet)
}

// HandleList returns the caller's pets.
//
// HTTP: GET /pets
func (h *PetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	pets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pets)
}
