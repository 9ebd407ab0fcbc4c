package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles POST /auth/login. Users with TOTP enabled receive a
// temporary token instead of a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, step, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if step != nil {
		utils.JSON(w, http.StatusOK, step)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

// LoginTOTP handles POST /auth/login/totp
func (h *AuthHandler) LoginTOTP(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Service.LoginTOTP(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	user, err := h.Service.Me(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// Menu handles GET /api/me/menu
func (h *AuthHandler) Menu(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Menu(actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

// SetupTOTP handles POST /api/me/totp/setup
func (h *AuthHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	setup, err := h.Service.SetupTOTP(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

// EnableTOTP handles POST /api/me/totp/enable
func (h *AuthHandler) EnableTOTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.TOTPCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.EnableTOTP(r.Context(), actor, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"totpEnabled": true})
}
