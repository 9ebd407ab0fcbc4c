package commission

import (
	"testing"

	"suryaghar-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func kw(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestLookup_DCRFixedTable(t *testing.T) {
	for capacity, row := range dcrFixedCommission {
		assert.True(t, decimal.NewFromInt(row.BDP).Equal(Lookup(decimal.NewFromInt(capacity), models.PanelTypeDCR, models.RoleBDP)))
		assert.True(t, decimal.NewFromInt(row.DDP).Equal(Lookup(decimal.NewFromInt(capacity), models.PanelTypeDCR, models.RoleDDP)))
	}

	assert.Equal(t, "10000", Lookup(kw(3), models.PanelTypeDCR, models.RoleBDP).String())
}

func TestLookup_DCRPerKwBand(t *testing.T) {
	for c := int64(6); c <= 10; c++ {
		want := decimal.NewFromInt(c * dcrPerKwRates.BDP)
		assert.True(t, want.Equal(Lookup(decimal.NewFromInt(c), models.PanelTypeDCR, models.RoleBDP)), "capacity %d", c)
	}
	assert.Equal(t, "14400", Lookup(kw(8), models.PanelTypeDCR, models.RoleDDP).String())
}

func TestLookup_NonDCR(t *testing.T) {
	assert.Equal(t, "4500", Lookup(kw(3), models.PanelTypeNonDCR, models.RoleBDP).String())
	assert.Equal(t, "2500", Lookup(kw(2.5), models.PanelTypeNonDCR, models.RoleDDP).String())
}

func TestLookup_MissingKeysDefaultToZero(t *testing.T) {
	tests := []struct {
		name     string
		capacity decimal.Decimal
		panel    models.PanelType
		role     models.Role
	}{
		{"below table", kw(0.5), models.PanelTypeDCR, models.RoleBDP},
		{"above table", kw(12), models.PanelTypeNonDCR, models.RoleDDP},
		{"fractional fixed band", kw(2.5), models.PanelTypeDCR, models.RoleBDP},
		{"gap between bands", kw(5.5), models.PanelTypeDCR, models.RoleDDP},
		{"admin earns nothing", kw(3), models.PanelTypeDCR, models.RoleAdmin},
		{"unknown panel", kw(3), models.PanelType("mono"), models.RoleBDP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Lookup(tt.capacity, tt.panel, tt.role).IsZero())
		})
	}
}

func TestLookup_ReferralReward(t *testing.T) {
	assert.Equal(t, "1500", Lookup(kw(3), models.PanelTypeDCR, models.RoleCustomerPartner).String())
	assert.Equal(t, "1500", Lookup(kw(3), models.PanelTypeNonDCR, models.RoleCustomerPartner).String())
}

func TestTotal_AddsInverterBonusForHybrid(t *testing.T) {
	onGrid := Total(kw(3), models.PanelTypeDCR, models.InstallationOnGrid, models.RoleDDP)
	hybrid := Total(kw(3), models.PanelTypeDCR, models.InstallationHybrid, models.RoleDDP)

	assert.Equal(t, "7000", onGrid.String())
	assert.Equal(t, "8500", hybrid.String())
	assert.True(t, InverterBonus(kw(3), models.InstallationHybrid, models.RoleCustomerPartner).IsZero())
}
