package handlers

import (
	"net/http"

	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Get serves every role's dashboard route; the router restricts which role
// reaches which path.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	d, err := h.Service.Get(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, d)
}
