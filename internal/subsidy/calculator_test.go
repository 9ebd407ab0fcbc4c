package subsidy

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantCentral float64
		wantState   float64
		wantTotal   float64
		wantCost    float64
		wantNet     float64
	}{
		{
			name:        "3kW Delhi dcr hybrid",
			in:          Input{CapacityKw: 3, State: "Delhi", PanelType: DCRHybrid},
			wantCentral: 78000, wantState: 0, wantTotal: 78000, wantCost: 225000, wantNet: 147000,
		},
		{
			name:        "2kW Odisha non dcr is not eligible",
			in:          Input{CapacityKw: 2, State: "Odisha", PanelType: NonDCR},
			wantCentral: 0, wantState: 0, wantTotal: 0, wantCost: 110000, wantNet: 110000,
		},
		{
			name:        "2kW Odisha dcr ongrid",
			in:          Input{CapacityKw: 2, State: "Odisha", PanelType: DCROnGrid},
			wantCentral: 60000, wantState: 40000, wantTotal: 100000, wantCost: 130000, wantNet: 30000,
		},
		{
			name:        "5kW Uttar Pradesh caps both subsidies",
			in:          Input{CapacityKw: 5, State: "uttar pradesh", PanelType: DCRHybrid},
			wantCentral: 78000, wantState: 30000, wantTotal: 108000, wantCost: 375000, wantNet: 267000,
		},
		{
			name:        "1kW Odisha",
			in:          Input{CapacityKw: 1, State: " Odisha ", PanelType: DCROnGrid},
			wantCentral: 30000, wantState: 20000, wantTotal: 50000, wantCost: 65000, wantNet: 15000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantCentral, res.CentralSubsidy, 0.001)
			assert.InDelta(t, tt.wantState, res.StateSubsidy, 0.001)
			assert.InDelta(t, tt.wantTotal, res.TotalSubsidy, 0.001)
			assert.InDelta(t, tt.wantCost, res.SystemCost, 0.001)
			assert.InDelta(t, tt.wantNet, res.NetCost, 0.001)
		})
	}
}

func TestCentralSubsidy_Bands(t *testing.T) {
	for _, c := range []float64{0.5, 1, 1.5, 2} {
		assert.InDelta(t, c*30000, CentralSubsidy(c), 0.001, "capacity %v", c)
	}
	assert.InDelta(t, 60000+0.5*18000, CentralSubsidy(2.5), 0.001)
	assert.InDelta(t, 78000, CentralSubsidy(3), 0.001)
	assert.InDelta(t, 78000, CentralSubsidy(10), 0.001)
}

func TestStateSubsidy_OtherStatesGetNothing(t *testing.T) {
	for _, state := range []string{"Delhi", "Kerala", "", "Maharashtra"} {
		assert.Zero(t, StateSubsidy(3, state), state)
	}
	assert.InDelta(t, 60000, StateSubsidy(3, "Odisha"), 0.001)
	assert.InDelta(t, 30000, StateSubsidy(3, "Uttar Pradesh"), 0.001)
}

func TestCalculate_NetCostNeverNegative(t *testing.T) {
	for _, pt := range []PanelType{DCRHybrid, DCROnGrid, NonDCR} {
		for c := 0.5; c <= MaxCapacityKw; c += 0.5 {
			for _, state := range []string{"Odisha", "Uttar Pradesh", "Delhi"} {
				res, err := Calculate(Input{CapacityKw: c, State: state, PanelType: pt})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.NetCost, 0.0)
				if pt == NonDCR {
					assert.Zero(t, res.TotalSubsidy)
				}
			}
		}
	}
}

func TestCalculate_Payback(t *testing.T) {
	res, err := Calculate(Input{CapacityKw: 3, State: "Delhi", PanelType: DCRHybrid})
	require.NoError(t, err)

	// 3 kW * 1440 kWh * 7 = 30240 per year; 147000 / 30240 = 4.86
	assert.InDelta(t, 4320, res.AnnualGenKwh, 0.001)
	assert.InDelta(t, 30240, res.AnnualSavings, 0.001)
	assert.InDelta(t, 4.9, res.PaybackYears, 0.001)
}

func TestCalculate_RejectsBadInput(t *testing.T) {
	_, err := Calculate(Input{CapacityKw: 0, PanelType: DCRHybrid})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = Calculate(Input{CapacityKw: 11, PanelType: DCRHybrid})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = Calculate(Input{CapacityKw: 3, PanelType: "mono"})
	assert.ErrorIs(t, err, ErrUnknownPanelType)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "Rs. 0", formatINR(0))
	assert.Equal(t, "Rs. 999", formatINR(999))
	assert.Equal(t, "Rs. 1,000", formatINR(1000))
	assert.Equal(t, "Rs. 1,47,000", formatINR(147000))
	assert.Equal(t, "Rs. 12,34,56,789", formatINR(123456789))
}

func TestQuotePDF(t *testing.T) {
	res, err := Calculate(Input{CapacityKw: 3, State: "Odisha", PanelType: DCROnGrid})
	require.NoError(t, err)

	out, err := QuotePDF(res, "Ramesh Sahu")
	require.NoError(t, err)
	assert.True(t, len(out) > 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestQuotePDF_TranslatesUserText(t *testing.T) {
	res, err := Calculate(Input{CapacityKw: 2, State: "Uttar Pradesh", PanelType: DCRHybrid})
	require.NoError(t, err)

	render := func(name string) []byte {
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetCompression(false)
		out, err := renderQuote(pdf, res, name)
		require.NoError(t, err)
		return out
	}

	latin := render("Jos\u00e9 Fern\u00e1ndez")
	assert.True(t, bytes.Contains(latin, []byte("Prepared for: Jos\xe9 Fern\xe1ndez")), "cp1252 bytes, not raw UTF-8")
	assert.False(t, bytes.Contains(latin, []byte("Jos\u00e9")))

	devanagari := render("\u0906\u0936\u093e \u0926\u0947\u0935\u0940")
	assert.True(t, bytes.Contains(devanagari, []byte("Prepared for: ... ....")))
}
