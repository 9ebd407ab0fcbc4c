package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"suryaghar-backend/internal/subsidy"
	"suryaghar-backend/internal/timeutil"
	"suryaghar-backend/pkg/utils"
)

// CalculatorHandler is public; it needs no login.
type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

type quoteRequest struct {
	subsidy.Input
	CustomerName string `json:"customerName"`
}

func calculate(w http.ResponseWriter, in subsidy.Input) (*subsidy.Result, bool) {
	res, err := subsidy.Calculate(in)
	if errors.Is(err, subsidy.ErrInvalidCapacity) || errors.Is(err, subsidy.ErrUnknownPanelType) {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "calculation failed")
		return nil, false
	}
	return res, true
}

// Calculate handles POST /api/calculator
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in subsidy.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	res, ok := calculate(w, in)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// Quote handles POST /api/calculator/quote.pdf
func (h *CalculatorHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, ok := calculate(w, req.Input)
	if !ok {
		return
	}

	pdf, err := subsidy.QuotePDF(res, strings.TrimSpace(req.CustomerName))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("render quote: %w", err))
		return
	}

	name := fmt.Sprintf("solar-quote-%s.pdf", timeutil.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
