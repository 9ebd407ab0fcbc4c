// Package commission holds the static partner payout tables and the lookup
// used when a customer installation completes.
package commission

import (
	"suryaghar-backend/internal/models"

	"github.com/shopspring/decimal"
)

// RoleRates is one row of a rate table, split by partner tier.
type RoleRates struct {
	BDP int64
	DDP int64
}

func (r RoleRates) For(role models.Role) (int64, bool) {
	switch role {
	case models.RoleBDP:
		return r.BDP, true
	case models.RoleDDP:
		return r.DDP, true
	default:
		return 0, false
	}
}

// Fixed payouts for DCR systems up to 5 kW, keyed by whole kW.
var dcrFixedCommission = map[int64]RoleRates{
	1: {BDP: 4000, DDP: 3000},
	2: {BDP: 7000, DDP: 5000},
	3: {BDP: 10000, DDP: 7000},
	4: {BDP: 12000, DDP: 8500},
	5: {BDP: 14000, DDP: 10000},
}

// Per-kW payouts for DCR systems from 6 to 10 kW.
var dcrPerKwRates = RoleRates{BDP: 2500, DDP: 1800}

// Per-kW payouts for non-DCR systems from 1 to 10 kW.
var nonDcrPerKwRates = RoleRates{BDP: 1500, DDP: 1000}

// Per-kW bonus on hybrid installations for the inverter sale.
var inverterCommission = RoleRates{BDP: 300, DDP: 500}

// Flat per-kW reward for the customer-partner who referred the customer.
const referralPerKw = 500

var (
	minKw      = decimal.NewFromInt(1)
	maxFixedKw = decimal.NewFromInt(5)
	minPerKwKw = decimal.NewFromInt(6)
	maxKw      = decimal.NewFromInt(10)
)

// Lookup returns the base commission for one partner on one installation.
// Capacities or roles with no table entry earn 0.
func Lookup(capacityKw decimal.Decimal, panelType models.PanelType, role models.Role) decimal.Decimal {
	if capacityKw.LessThan(minKw) || capacityKw.GreaterThan(maxKw) {
		return decimal.Zero
	}

	if role == models.RoleCustomerPartner {
		return capacityKw.Mul(decimal.NewFromInt(referralPerKw))
	}

	switch panelType {
	case models.PanelTypeDCR:
		if capacityKw.LessThanOrEqual(maxFixedKw) {
			if !capacityKw.Equal(capacityKw.Truncate(0)) {
				return decimal.Zero
			}
			row, ok := dcrFixedCommission[capacityKw.IntPart()]
			if !ok {
				return decimal.Zero
			}
			amount, _ := row.For(role)
			return decimal.NewFromInt(amount)
		}
		if capacityKw.LessThan(minPerKwKw) {
			return decimal.Zero
		}
		rate, ok := dcrPerKwRates.For(role)
		if !ok {
			return decimal.Zero
		}
		return capacityKw.Mul(decimal.NewFromInt(rate))
	case models.PanelTypeNonDCR:
		rate, ok := nonDcrPerKwRates.For(role)
		if !ok {
			return decimal.Zero
		}
		return capacityKw.Mul(decimal.NewFromInt(rate))
	default:
		return decimal.Zero
	}
}

// InverterBonus is added on top of Lookup for hybrid installations.
func InverterBonus(capacityKw decimal.Decimal, installation models.InstallationType, role models.Role) decimal.Decimal {
	if installation != models.InstallationHybrid {
		return decimal.Zero
	}
	if capacityKw.LessThan(minKw) || capacityKw.GreaterThan(maxKw) {
		return decimal.Zero
	}
	rate, ok := inverterCommission.For(role)
	if !ok {
		return decimal.Zero
	}
	return capacityKw.Mul(decimal.NewFromInt(rate))
}

// Total is what a partner earns for a completed customer.
func Total(capacityKw decimal.Decimal, panelType models.PanelType, installation models.InstallationType, role models.Role) decimal.Decimal {
	return Lookup(capacityKw, panelType, role).Add(InverterBonus(capacityKw, installation, role))
}
