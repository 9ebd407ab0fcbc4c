package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type ReferralHandler struct {
	Service *services.ReferralService
}

func NewReferralHandler(s *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{Service: s}
}

// Create handles POST /api/customer-partner/referrals
func (h *ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateReferralRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, ref)
}

func (h *ReferralHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	refs, err := h.Service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if refs == nil {
		refs = []*models.Referral{}
	}
	utils.JSON(w, http.StatusOK, refs)
}

// UpdateStatus handles PATCH /api/referrals/{id}/status
func (h *ReferralHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateReferralStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := h.Service.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, ref)
}
