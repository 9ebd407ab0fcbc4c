package subsidy

import (
	"bytes"
	"fmt"
	"strings"

	"suryaghar-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

var panelLabels = map[PanelType]string{
	DCRHybrid: "DCR panels, hybrid inverter",
	DCROnGrid: "DCR panels, on-grid inverter",
	NonDCR:    "Non-DCR panels",
}

// formatINR renders whole rupees with Indian digit grouping, e.g. 1,47,000.
func formatINR(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		s = "-" + s
	}
	return "Rs. " + s
}

// QuotePDF renders a one-page customer quote for a calculation.
func QuotePDF(res *Result, customerName string) ([]byte, error) {
	return renderQuote(gofpdf.New("P", "mm", "A4", ""), res, customerName)
}

// renderQuote draws onto pdf. The core fonts are cp1252, so user-supplied
// text goes through the cp1252 translator; runes outside it print as '.'.
func renderQuote(pdf *gofpdf.Fpdf, res *Result, customerName string) ([]byte, error) {
	text := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(180, 10, "PM Surya Ghar - Rooftop Solar Quote", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(180, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	if customerName != "" {
		pdf.CellFormat(180, 6, "Prepared for: "+text(customerName), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	section := func(title string) {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(180, 8, title, "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
	}
	row := func(label, value string) {
		pdf.CellFormat(100, 7, label, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(80, 7, value, "RB", 1, "R", false, 0, "")
	}

	section("System")
	row("Capacity", fmt.Sprintf("%.2f kW", res.CapacityKw))
	row("Configuration", panelLabels[res.PanelType])
	if res.State != "" {
		row("State", text(res.State))
	}
	row("Estimated generation", fmt.Sprintf("%.0f kWh / year", res.AnnualGenKwh))
	pdf.Ln(4)

	section("Cost and subsidy")
	row("System cost", formatINR(res.SystemCost))
	row("Central subsidy", formatINR(res.CentralSubsidy))
	row("State subsidy", formatINR(res.StateSubsidy))
	pdf.SetFont("Arial", "B", 11)
	row("Total subsidy", formatINR(res.TotalSubsidy))
	row("Net cost to customer", formatINR(res.NetCost))
	pdf.SetFont("Arial", "", 11)
	pdf.Ln(4)

	section("Returns")
	row("Annual savings", formatINR(res.AnnualSavings))
	row("Payback period", fmt.Sprintf("%.1f years", res.PaybackYears))
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 9)
	if !res.SubsidyEligible {
		pdf.MultiCell(180, 5, "Non-DCR panels do not qualify for PM Surya Ghar subsidies.", "", "L", false)
	}
	pdf.MultiCell(180, 5, "Figures are estimates. Final subsidy is released by the DISCOM after commissioning and inspection.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}
