package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/service"
)

// AuthHandler exposes signup, login, token refresh, and the current
// user endpoint.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(pair *auth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "bearer",
	}
}

// HandleSignup registers a new account.
//
// HTTP: POST /auth/signup {email, password}
// A taken email returns 400, never a second user record.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin authenticates with OAuth2-style form credentials.
//
// HTTP: POST /auth/login (application/x-www-form-urlencoded,
// username/password fields — the form variant uses "username" for the
// email to match the password-flow convention).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid form body"))
		return
	}

	pair, err := h.svc.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// HandleLoginJSON authenticates with JSON credentials.
//
// HTTP: POST /auth/login/json {email, password}
func (h *AuthHandler) HandleLoginJSON(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// HandleRefresh exchanges a refresh token for a fresh pair.
//
// HTTP: POST /auth/refresh?token=...
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, apperror.Unauthorized("invalid refresh token"))
		return
	}

	pair, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// HandleMe returns the authenticated user's record.
//
// HTTP: GET /auth/me (bearer token required)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
