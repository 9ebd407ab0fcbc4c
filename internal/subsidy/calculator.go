// Package subsidy estimates PM Surya Ghar subsidies, system cost and payback
// for a rooftop installation.
package subsidy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// PanelType selects the panel and inverter combination being priced.
type PanelType string

const (
	DCRHybrid PanelType = "dcr_hybrid"
	DCROnGrid PanelType = "dcr_ongrid"
	NonDCR    PanelType = "non_dcr"
)

// Only DCR panels qualify for any subsidy.
func (p PanelType) Eligible() bool {
	return p == DCRHybrid || p == DCROnGrid
}

const (
	MaxCapacityKw = 10.0

	centralFirstBandKw   = 2.0
	centralFirstBandRate = 30000.0
	centralSecondBandKw  = 3.0
	centralSecondRate    = 18000.0
	centralCap           = 78000.0

	stateSubsidyMaxKw = 3.0

	// kWh generated per installed kW per year
	annualGenerationPerKw = 1440.0
	tariffPerKwh          = 7.0
)

var costPerKw = map[PanelType]float64{
	DCRHybrid: 75000,
	DCROnGrid: 65000,
	NonDCR:    55000,
}

// stateRatePerKw is the top-up some states pay on the first 3 kW.
var stateRatePerKw = map[string]float64{
	"odisha":        20000,
	"uttar pradesh": 10000,
}

var (
	ErrInvalidCapacity  = errors.New("capacity must be greater than 0 and at most 10 kW")
	ErrUnknownPanelType = errors.New("unknown panel type")
)

type Input struct {
	CapacityKw float64   `json:"capacity"`
	State      string    `json:"state"`
	PanelType  PanelType `json:"panelType"`
}

type Result struct {
	CapacityKw      float64   `json:"capacity"`
	State           string    `json:"state"`
	PanelType       PanelType `json:"panelType"`
	CentralSubsidy  float64   `json:"centralSubsidy"`
	StateSubsidy    float64   `json:"stateSubsidy"`
	TotalSubsidy    float64   `json:"totalSubsidy"`
	SystemCost      float64   `json:"systemCost"`
	NetCost         float64   `json:"netCost"`
	AnnualSavings   float64   `json:"annualSavings"`
	PaybackYears    float64   `json:"paybackYears"`
	AnnualGenKwh    float64   `json:"annualGenerationKwh"`
	SubsidyEligible bool      `json:"subsidyEligible"`
}

func Calculate(in Input) (*Result, error) {
	if math.IsNaN(in.CapacityKw) || in.CapacityKw <= 0 || in.CapacityKw > MaxCapacityKw {
		return nil, ErrInvalidCapacity
	}
	rate, ok := costPerKw[in.PanelType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanelType, in.PanelType)
	}

	res := &Result{
		CapacityKw:      in.CapacityKw,
		State:           in.State,
		PanelType:       in.PanelType,
		SystemCost:      in.CapacityKw * rate,
		SubsidyEligible: in.PanelType.Eligible(),
	}

	if res.SubsidyEligible {
		res.CentralSubsidy = CentralSubsidy(in.CapacityKw)
		res.StateSubsidy = StateSubsidy(in.CapacityKw, in.State)
	}
	res.TotalSubsidy = res.CentralSubsidy + res.StateSubsidy
	res.NetCost = math.Max(0, res.SystemCost-res.TotalSubsidy)

	res.AnnualGenKwh = in.CapacityKw * annualGenerationPerKw
	res.AnnualSavings = res.AnnualGenKwh * tariffPerKwh
	if res.AnnualSavings > 0 {
		res.PaybackYears = math.Round(res.NetCost/res.AnnualSavings*10) / 10
	}
	return res, nil
}

// CentralSubsidy is 30000/kW up to 2 kW, 18000/kW for the third kW, and
// flat 78000 above 3 kW.
func CentralSubsidy(capacityKw float64) float64 {
	switch {
	case capacityKw <= 0:
		return 0
	case capacityKw <= centralFirstBandKw:
		return capacityKw * centralFirstBandRate
	case capacityKw <= centralSecondBandKw:
		return centralFirstBandKw*centralFirstBandRate + (capacityKw-centralFirstBandKw)*centralSecondRate
	default:
		return centralCap
	}
}

// StateSubsidy returns the state top-up on the first 3 kW.
func StateSubsidy(capacityKw float64, state string) float64 {
	rate, ok := stateRatePerKw[strings.ToLower(strings.TrimSpace(state))]
	if !ok || capacityKw <= 0 {
		return 0
	}
	return math.Min(capacityKw, stateSubsidyMaxKw) * rate
}
