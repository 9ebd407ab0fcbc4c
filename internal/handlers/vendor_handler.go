package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/repositories"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type VendorHandler struct {
	Service *services.VendorService
}

func NewVendorHandler(s *services.VendorService) *VendorHandler {
	return &VendorHandler{Service: s}
}

// List handles GET /api/vendors?type=&state=&active=true
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repositories.VendorFilter{
		VendorType: models.VendorType(q.Get("type")),
		State:      q.Get("state"),
		ActiveOnly: q.Get("active") == "true",
	}
	if f.VendorType != "" && !f.VendorType.Valid() {
		utils.Error(w, http.StatusBadRequest, "Invalid vendor type")
		return
	}

	vendors, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if vendors == nil {
		vendors = []*models.Vendor{}
	}
	utils.JSON(w, http.StatusOK, vendors)
}

func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	vendor, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

// Create handles POST /api/admin/vendors
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateVendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, vendor)
}

// Update handles PUT /api/admin/vendors/{id}
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateVendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vendor, err := h.Service.Update(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

// Delete handles DELETE /api/admin/vendors/{id}
func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DiscomSuggestions handles GET /api/vendors/discom-suggestions?state=
func (h *VendorHandler) DiscomSuggestions(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Service.DiscomSuggestions(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if vendors == nil {
		vendors = []*models.Vendor{}
	}
	utils.JSON(w, http.StatusOK, vendors)
}

// ListAssignments handles GET /api/customers/{id}/vendor-assignments
func (h *VendorHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	grouped, err := h.Service.ListAssignments(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, grouped)
}

// CreateAssignment handles POST /api/customers/{id}/vendor-assignments
func (h *VendorHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.Service.CreateAssignment(r.Context(), actor, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

// DeleteAssignment handles DELETE /api/customers/{id}/vendor-assignments/{assignmentId}
func (h *VendorHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	assignmentID, ok := pathInt(w, r, "assignmentId")
	if !ok {
		return
	}

	if err := h.Service.DeleteAssignment(r.Context(), actor, id, assignmentID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateAssignmentStatus handles PATCH /api/customers/{id}/vendor-assignments/{assignmentId}/status
func (h *VendorHandler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	assignmentID, ok := pathInt(w, r, "assignmentId")
	if !ok {
		return
	}
	var req models.UpdateAssignmentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.Service.UpdateAssignmentStatus(r.Context(), actor, id, assignmentID, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}
