package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

// JourneyHandler serves the installation tracker for one customer.
type JourneyHandler struct {
	Service *services.JourneyService
}

func NewJourneyHandler(s *services.JourneyService) *JourneyHandler {
	return &JourneyHandler{Service: s}
}

// Get handles GET /api/customers/{id}/journey
func (h *JourneyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	journey, err := h.Service.GetJourney(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, journey)
}

// CompleteMilestone handles POST /api/customers/{id}/milestones/{milestoneId}/complete.
// The body is optional.
func (h *JourneyHandler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathInt(w, r, "milestoneId")
	if !ok {
		return
	}

	var req models.CompleteMilestoneRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	m, err := h.Service.CompleteMilestone(r.Context(), actor, id, milestoneID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

// UpdateMilestone handles PATCH /api/customers/{id}/milestones/{milestoneId}
func (h *JourneyHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathInt(w, r, "milestoneId")
	if !ok {
		return
	}

	var req models.UpdateMilestoneStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.Service.SetMilestoneStatus(r.Context(), actor, id, milestoneID, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, m)
}
