package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/notify"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	Service *services.NotificationService
	Hub     *notify.Hub
}

func NewNotificationHandler(s *services.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{Service: s, Hub: hub}
}

// List handles GET /api/notifications?unread=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("unread") == "true")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Notification{}
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	n, err := h.Service.CountUnread(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"unread": n})
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	if err := h.Service.MarkRead(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	n, err := h.Service.MarkAllRead(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// Stream handles GET /ws/notifications?token=. The hub owns the
// connection once upgraded.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	h.Hub.Serve(w, r, actor.ID)
}
