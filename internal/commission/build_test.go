package commission

import (
	"testing"

	"suryaghar-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestForCustomer_DirectWithBDP(t *testing.T) {
	c := &models.Customer{
		ID: 7, DDPID: 3, ProposedCapacity: decimal.NewFromInt(3),
		PanelType: models.PanelTypeDCR, InstallationType: models.InstallationOnGrid, Source: models.SourceDirect,
	}

	rows := ForCustomer(c, intPtr(2))
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].PartnerID)
	assert.Equal(t, models.RoleDDP, rows[0].PartnerRole)
	assert.Equal(t, "7000", rows[0].CommissionAmount.String())

	assert.Equal(t, 2, rows[1].PartnerID)
	assert.Equal(t, models.RoleBDP, rows[1].PartnerRole)
	assert.Equal(t, "10000", rows[1].CommissionAmount.String())

	for _, r := range rows {
		assert.Equal(t, 7, r.CustomerID)
		assert.Equal(t, models.CommissionStatusPending, r.Status)
	}
}

func TestForCustomer_ReferralAddsCustomerPartner(t *testing.T) {
	c := &models.Customer{
		ID: 1, DDPID: 3, ProposedCapacity: decimal.NewFromInt(2),
		PanelType: models.PanelTypeNonDCR, InstallationType: models.InstallationHybrid,
		Source: models.SourceReferral, ReferrerID: intPtr(9),
	}

	rows := ForCustomer(c, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, models.RoleDDP, rows[0].PartnerRole)
	// 2 kW * 1000 + 2 kW * 500 inverter bonus
	assert.Equal(t, "3000", rows[0].CommissionAmount.String())
	assert.Equal(t, 9, rows[1].PartnerID)
	assert.Equal(t, models.RoleCustomerPartner, rows[1].PartnerRole)
	assert.Equal(t, "1000", rows[1].CommissionAmount.String())
}

func TestForCustomer_SkipsZeroAmounts(t *testing.T) {
	c := &models.Customer{
		ID: 1, DDPID: 3, ProposedCapacity: decimal.NewFromFloat(2.5),
		PanelType: models.PanelTypeDCR, InstallationType: models.InstallationOnGrid, Source: models.SourceDirect,
	}
	assert.Empty(t, ForCustomer(c, intPtr(2)))
}
