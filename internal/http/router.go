package http

import (
	"net/http"

	"suryaghar-backend/internal/handlers"
	"suryaghar-backend/internal/middleware"
	"suryaghar-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything NewRouter mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Partner      *handlers.PartnerHandler
	Customer     *handlers.CustomerHandler
	Journey      *handlers.JourneyHandler
	Vendor       *handlers.VendorHandler
	Commission   *handlers.CommissionHandler
	Calculator   *handlers.CalculatorHandler
	Document     *handlers.DocumentHandler
	Feedback     *handlers.FeedbackHandler
	Notification *handlers.NotificationHandler
	Referral     *handlers.ReferralHandler
	Order        *handlers.OrderHandler
	Payment      *handlers.PaymentHandler
	Dashboard    *handlers.DashboardHandler
	Health       *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	only := func(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
		guard := authMiddleware.RequireRole(roles...)
		return func(fn http.HandlerFunc) http.HandlerFunc {
			return guard(fn).ServeHTTP
		}
	}
	admin := only(models.RoleAdmin)
	staff := only(models.RoleAdmin, models.RoleBDP, models.RoleDDP)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/auth/login/totp", h.Auth.LoginTOTP).Methods("POST")

	// Public calculator
	r.HandleFunc("/api/calculator", h.Calculator.Calculate).Methods("POST")
	r.HandleFunc("/api/calculator/quote.pdf", h.Calculator.Quote).Methods("POST")

	// Razorpay calls this directly; the signature is the authentication
	r.HandleFunc("/api/payments/webhook", h.Payment.Webhook).Methods("POST")

	// Websocket clients cannot set headers
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authMiddleware.AuthenticateQueryToken)
	ws.HandleFunc("/notifications", h.Notification.Stream).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Current user
	api.HandleFunc("/me", h.Auth.Me).Methods("GET")
	api.HandleFunc("/me/menu", h.Auth.Menu).Methods("GET")
	api.HandleFunc("/me/totp/setup", h.Auth.SetupTOTP).Methods("POST")
	api.HandleFunc("/me/totp/enable", h.Auth.EnableTOTP).Methods("POST")

	// Customers and their journey
	api.HandleFunc("/customers", h.Customer.List).Methods("GET")
	api.HandleFunc("/customers", staff(h.Customer.Create)).Methods("POST")
	api.HandleFunc("/customers/{id}", h.Customer.Get).Methods("GET")
	api.HandleFunc("/customers/{id}/status", staff(h.Customer.UpdateStatus)).Methods("PATCH")
	api.HandleFunc("/customers/{id}/lead-score", staff(h.Customer.ScoreLead)).Methods("POST")
	api.HandleFunc("/customers/{id}/journey", h.Journey.Get).Methods("GET")
	api.HandleFunc("/customers/{id}/milestones/{milestoneId}/complete", staff(h.Journey.CompleteMilestone)).Methods("POST")
	api.HandleFunc("/customers/{id}/milestones/{milestoneId}", staff(h.Journey.UpdateMilestone)).Methods("PATCH")
	api.HandleFunc("/customers/{id}/vendor-assignments", h.Vendor.ListAssignments).Methods("GET")
	api.HandleFunc("/customers/{id}/vendor-assignments", staff(h.Vendor.CreateAssignment)).Methods("POST")
	api.HandleFunc("/customers/{id}/vendor-assignments/{assignmentId}", staff(h.Vendor.DeleteAssignment)).Methods("DELETE")
	api.HandleFunc("/customers/{id}/vendor-assignments/{assignmentId}/status", staff(h.Vendor.UpdateAssignmentStatus)).Methods("PATCH")
	api.HandleFunc("/customers/{id}/documents", h.Document.ListForCustomer).Methods("GET")

	// Vendors
	api.HandleFunc("/vendors", staff(h.Vendor.List)).Methods("GET")
	api.HandleFunc("/vendors/discom-suggestions", staff(h.Vendor.DiscomSuggestions)).Methods("GET")
	api.HandleFunc("/vendors/{id}", staff(h.Vendor.Get)).Methods("GET")

	// Documents
	api.HandleFunc("/documents/upload", h.Document.Upload).Methods("POST")
	api.HandleFunc("/documents/{id}/download", h.Document.Download).Methods("GET")
	api.HandleFunc("/documents/{id}/verify", admin(h.Document.Verify)).Methods("PATCH")
	api.HandleFunc("/documents/{id}", h.Document.Delete).Methods("DELETE")
	api.HandleFunc("/partners/{id}/documents", h.Document.ListForPartner).Methods("GET")

	// Feedback, notifications, referrals
	api.HandleFunc("/feedback", h.Feedback.List).Methods("GET")
	api.HandleFunc("/feedback", h.Feedback.Create).Methods("POST")
	api.HandleFunc("/notifications", h.Notification.List).Methods("GET")
	api.HandleFunc("/notifications/unread-count", h.Notification.UnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods("POST")
	api.HandleFunc("/notifications/{id}/read", h.Notification.MarkRead).Methods("PATCH")
	api.HandleFunc("/referrals", h.Referral.List).Methods("GET")
	api.HandleFunc("/referrals/{id}/status", only(models.RoleAdmin, models.RoleDDP)(h.Referral.UpdateStatus)).Methods("PATCH")

	// Orders and payments
	api.HandleFunc("/orders", h.Order.List).Methods("GET")
	api.HandleFunc("/orders/{id}", h.Order.Get).Methods("GET")
	api.HandleFunc("/orders/{id}/payments", h.Payment.List).Methods("GET")
	api.HandleFunc("/orders/{id}/payments", staff(h.Payment.Checkout)).Methods("POST")
	api.HandleFunc("/payments/verify", h.Payment.Verify).Methods("POST")

	// Admin
	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(authMiddleware.RequireAdmin)
	adminAPI.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")
	adminAPI.HandleFunc("/partners", h.Partner.List).Methods("GET")
	adminAPI.HandleFunc("/partners", h.Partner.Create).Methods("POST")
	adminAPI.HandleFunc("/partners/{id}/active", h.Partner.SetActive).Methods("PATCH")
	adminAPI.HandleFunc("/commissions", h.Commission.List).Methods("GET")
	adminAPI.HandleFunc("/commissions/summary", h.Commission.Summary).Methods("GET")
	adminAPI.HandleFunc("/commissions/export", h.Commission.Export).Methods("GET")
	adminAPI.HandleFunc("/commissions/{id}/status", h.Commission.UpdateStatus).Methods("PATCH")
	adminAPI.HandleFunc("/vendors", h.Vendor.Create).Methods("POST")
	adminAPI.HandleFunc("/vendors/{id}", h.Vendor.Update).Methods("PUT")
	adminAPI.HandleFunc("/vendors/{id}", h.Vendor.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/feedback/{id}/status", h.Feedback.UpdateStatus).Methods("PATCH")
	adminAPI.HandleFunc("/orders", h.Order.Create).Methods("POST")
	adminAPI.HandleFunc("/orders/{id}/status", h.Order.UpdateStatus).Methods("PATCH")

	// Per-role landing pages
	for prefix, role := range map[string]models.Role{
		"/bdp":              models.RoleBDP,
		"/ddp":              models.RoleDDP,
		"/customer-partner": models.RoleCustomerPartner,
	} {
		sub := api.PathPrefix(prefix).Subrouter()
		sub.Use(authMiddleware.RequireRole(role))
		sub.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")
		sub.HandleFunc("/commissions", h.Commission.List).Methods("GET")
		sub.HandleFunc("/commissions/summary", h.Commission.Summary).Methods("GET")
		switch role {
		case models.RoleCustomerPartner:
			sub.HandleFunc("/referrals", h.Referral.Create).Methods("POST")
		default:
			// BDPs and DDPs only see their own children
			sub.HandleFunc("/partners", h.Partner.List).Methods("GET")
		}
	}

	// Health check endpoints (no auth required)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
