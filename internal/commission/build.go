package commission

import (
	"suryaghar-backend/internal/models"
)

// ForCustomer builds the commission rows owed when c completes: one for
// its DDP, one for the DDP's BDP when bdpID is set, and one for the
// referring customer-partner on referral customers. Rows that would pay
// nothing are left out.
func ForCustomer(c *models.Customer, bdpID *int) []*models.Commission {
	type payee struct {
		id   int
		role models.Role
	}
	payees := []payee{{id: c.DDPID, role: models.RoleDDP}}
	if bdpID != nil {
		payees = append(payees, payee{id: *bdpID, role: models.RoleBDP})
	}
	if c.Source == models.SourceReferral && c.ReferrerID != nil {
		payees = append(payees, payee{id: *c.ReferrerID, role: models.RoleCustomerPartner})
	}

	out := make([]*models.Commission, 0, len(payees))
	for _, p := range payees {
		amount := Total(c.ProposedCapacity, c.PanelType, c.InstallationType, p.role)
		if amount.IsZero() {
			continue
		}
		out = append(out, &models.Commission{
			PartnerID:        p.id,
			PartnerRole:      p.role,
			CustomerID:       c.ID,
			CustomerName:     c.Name,
			CapacityKw:       c.ProposedCapacity,
			PanelType:        c.PanelType,
			CommissionAmount: amount,
			Status:           models.CommissionStatusPending,
		})
	}
	return out
}
