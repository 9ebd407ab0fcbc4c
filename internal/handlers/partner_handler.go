package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

// PartnerHandler manages the partner hierarchy (BDP, DDP, customer-partner).
type PartnerHandler struct {
	Service *services.UserService
}

func NewPartnerHandler(s *services.UserService) *PartnerHandler {
	return &PartnerHandler{Service: s}
}

// List handles GET /api/admin/partners?role=&parentId=
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	parentID, ok := queryInt(w, r, "parentId")
	if !ok {
		return
	}

	role := models.Role(r.URL.Query().Get("role"))
	if role != "" {
		parsed, err := models.ParseRole(string(role))
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		role = parsed
	}

	users, err := h.Service.ListPartners(r.Context(), actor, role, parentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	utils.JSON(w, http.StatusOK, users)
}

// Create handles POST /api/admin/partners
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.CreatePartnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Service.CreatePartner(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

// SetActive handles PATCH /api/admin/partners/{id}/active
func (h *PartnerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Service.SetActive(r.Context(), actor, id, req.IsActive); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"id": id, "isActive": req.IsActive})
}
