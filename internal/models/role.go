package models

import "fmt"

// Role is the partner tier of a user.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleBDP             Role = "bdp"
	RoleDDP             Role = "ddp"
	RoleCustomerPartner Role = "customer_partner"
)

var Roles = []Role{RoleAdmin, RoleBDP, RoleDDP, RoleCustomerPartner}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// MenuItem is one navigation entry shown to a signed-in partner.
type MenuItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// MenuFor builds the navigation for role. Every role must have a case here.
func MenuFor(role Role) ([]MenuItem, error) {
	switch role {
	case RoleAdmin:
		return []MenuItem{
			{Key: "dashboard", Label: "Dashboard", Path: "/admin/dashboard"},
			{Key: "partners", Label: "Partners", Path: "/admin/partners"},
			{Key: "customers", Label: "Customers", Path: "/admin/customers"},
			{Key: "vendors", Label: "Vendors", Path: "/admin/vendors"},
			{Key: "commissions", Label: "Commissions", Path: "/admin/commissions"},
			{Key: "orders", Label: "Orders", Path: "/admin/orders"},
			{Key: "feedback", Label: "Feedback", Path: "/admin/feedback"},
			{Key: "calculator", Label: "Subsidy Calculator", Path: "/calculator"},
		}, nil
	case RoleBDP:
		return []MenuItem{
			{Key: "dashboard", Label: "Dashboard", Path: "/bdp/dashboard"},
			{Key: "partners", Label: "District Partners", Path: "/bdp/partners"},
			{Key: "customers", Label: "Customers", Path: "/bdp/customers"},
			{Key: "commissions", Label: "Commissions", Path: "/bdp/commissions"},
			{Key: "calculator", Label: "Subsidy Calculator", Path: "/calculator"},
		}, nil
	case RoleDDP:
		return []MenuItem{
			{Key: "dashboard", Label: "Dashboard", Path: "/ddp/dashboard"},
			{Key: "customers", Label: "Customers", Path: "/ddp/customers"},
			{Key: "documents", Label: "Documents", Path: "/ddp/documents"},
			{Key: "referrals", Label: "Referrals", Path: "/ddp/referrals"},
			{Key: "commissions", Label: "Commissions", Path: "/ddp/commissions"},
			{Key: "calculator", Label: "Subsidy Calculator", Path: "/calculator"},
		}, nil
	case RoleCustomerPartner:
		return []MenuItem{
			{Key: "dashboard", Label: "Dashboard", Path: "/customer-partner/dashboard"},
			{Key: "referrals", Label: "My Referrals", Path: "/customer-partner/referrals"},
			{Key: "commissions", Label: "Earnings", Path: "/customer-partner/commissions"},
			{Key: "calculator", Label: "Subsidy Calculator", Path: "/calculator"},
		}, nil
	default:
		return nil, fmt.Errorf("no menu for role %q", role)
	}
}

// Actor is the authenticated caller a service call runs on behalf of.
type Actor struct {
	ID   int
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
