package handlers

import (
	"fmt"
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CommissionHandler struct {
	Service *services.CommissionService
}

func NewCommissionHandler(s *services.CommissionService) *CommissionHandler {
	return &CommissionHandler{Service: s}
}

// List handles GET /api/{role}/commissions?status=&partnerId=. The partner
// filter only matters for admins.
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	partnerID, ok := queryInt(w, r, "partnerId")
	if !ok {
		return
	}
	status := models.CommissionStatus(r.URL.Query().Get("status"))

	rows, err := h.Service.List(r.Context(), actor, status, partnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []*models.Commission{}
	}
	utils.JSON(w, http.StatusOK, rows)
}

// Summary handles GET /api/{role}/commissions/summary
func (h *CommissionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	sum, err := h.Service.Summary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, sum)
}

// UpdateStatus handles PATCH /api/admin/commissions/{id}/status
func (h *CommissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateCommissionStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cm, err := h.Service.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, cm)
}

// Export handles GET /api/admin/commissions/export?status=
func (h *CommissionHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	status := models.CommissionStatus(r.URL.Query().Get("status"))

	data, name, err := h.Service.ExportPayouts(r.Context(), actor, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
