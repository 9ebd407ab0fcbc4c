package models

// Dashboard is the aggregate shown on each role's landing page. Fields a
// role cannot see are left empty.
type Dashboard struct {
	Role              Role                   `json:"role"`
	CustomersByStatus map[CustomerStatus]int `json:"customersByStatus"`
	TotalCustomers    int                    `json:"totalCustomers"`
	Commissions       CommissionSummary      `json:"commissions"`
	PartnerCounts     map[Role]int           `json:"partnerCounts,omitempty"`
	ReferralsByStatus map[ReferralStatus]int `json:"referralsByStatus,omitempty"`
	OpenFeedback      int                    `json:"openFeedback,omitempty"`
	PendingDocuments  int                    `json:"pendingDocuments,omitempty"`
	UnreadAlerts      int                    `json:"unreadNotifications"`
}
