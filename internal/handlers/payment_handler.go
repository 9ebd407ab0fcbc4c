package handlers

import (
	"io"
	"net/http"

	"suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/pkg/utils"

	"go.uber.org/zap"
)

// Razorpay webhook bodies are small; anything bigger is not from them.
const maxWebhookBytes = 1 << 20

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// Checkout handles POST /api/orders/{id}/payments and returns what the
// browser needs to open Razorpay checkout.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	orderID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	co, err := h.Service.Checkout(r.Context(), actor, orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, co)
}

// List handles GET /api/orders/{id}/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	orderID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	payments, err := h.Service.ListForOrder(r.Context(), actor, orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	utils.JSON(w, http.StatusOK, payments)
}

// Verify handles POST /api/payments/verify, the checkout success callback.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.Verify(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// Webhook handles POST /api/payments/webhook
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		logger.Get().Warn("failed to read razorpay webhook body", zap.Error(err))
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if err := h.Service.HandleWebhook(r.Context(), body, r.Header.Get("X-Razorpay-Signature")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
