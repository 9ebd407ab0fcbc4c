package handlers

import (
	"net/http"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

// List handles GET /api/customers?status=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	status := models.CustomerStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		utils.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	customers, err := h.Service.List(r.Context(), actor, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// UpdateStatus handles PATCH /api/customers/{id}/status. Only the next
// status in the pipeline is accepted.
func (h *CustomerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateCustomerStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.Service.TransitionStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// ScoreLead handles POST /api/customers/{id}/lead-score
func (h *CustomerHandler) ScoreLead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	res, err := h.Service.ScoreLead(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
