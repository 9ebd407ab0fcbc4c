package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type FeedbackHandler struct {
	Service *services.FeedbackService
}

func NewFeedbackHandler(s *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{Service: s}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fb, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, fb)
}

// List returns all feedback to admins and the caller's own otherwise.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Feedback{}
	}
	utils.JSON(w, http.StatusOK, items)
}

// UpdateStatus handles PATCH /api/admin/feedback/{id}/status
func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateFeedbackStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fb, err := h.Service.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, fb)
}
