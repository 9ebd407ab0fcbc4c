package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/timeutil"
	"suryaghar-backend/internal/validation"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentCurrency = "INR"

var paiseFactor = decimal.NewFromInt(100)

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID int) ([]*models.Payment, error)
	MarkCaptured(ctx context.Context, razorpayOrderID, paymentID string, signature, method *string) error
	MarkFailed(ctx context.Context, razorpayOrderID string, paymentID *string, reason string) error
}

// Gateway is the part of Razorpay the payment flow needs.
type Gateway interface {
	CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error)
	FetchPayment(paymentID string) (map[string]interface{}, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway returns nil when credentials are missing, which turns
// checkout off.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	if keyID == "" || keySecret == "" {
		return nil
	}
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	order, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": paymentCurrency,
		"receipt":  receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order response has no id")
	}
	return id, nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (map[string]interface{}, error) {
	return g.client.Payment.Fetch(paymentID, nil, nil)
}

type PaymentService struct {
	orders        orderStore
	payments      paymentStore
	customers     customerGetter
	gateway       Gateway
	keyID         string
	keySecret     string
	webhookSecret string
	logger        *zap.Logger
}

func NewPaymentService(orders orderStore, payments paymentStore, customers customerGetter, gateway Gateway, keyID, keySecret, webhookSecret string, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		orders:        orders,
		payments:      payments,
		customers:     customers,
		gateway:       gateway,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		logger:        applog.OrNop(logger),
	}
}

// ToPaise converts rupees to whole paise, rounding half up.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(paiseFactor).Round(0).IntPart()
}

// Checkout opens a Razorpay order for an equipment order and records the
// attempt.
func (s *PaymentService) Checkout(ctx context.Context, actor models.Actor, orderID int) (*models.RazorpayCheckout, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: razorpay is not configured", ErrUnavailable)
	}
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
	}
	c, err := s.customers.Get(ctx, o.CustomerID)
	if err != nil {
		return nil, err
	}

	paise := ToPaise(o.Amount)
	receipt := fmt.Sprintf("ord_%d_%s", o.ID, timeutil.FormatIST(timeutil.Now(), timeutil.FileLayout))
	rzpOrderID, err := s.gateway.CreateOrder(paise, receipt, map[string]interface{}{
		"order_id":       o.ID,
		"customer_id":    c.ID,
		"customer_phone": c.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	p := &models.Payment{
		OrderID:         o.ID,
		RazorpayOrderID: rzpOrderID,
		Amount:          o.Amount,
		Currency:        paymentCurrency,
		Status:          models.PaymentCreated,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	return &models.RazorpayCheckout{
		PaymentID:       p.ID,
		RazorpayOrderID: rzpOrderID,
		AmountPaise:     paise,
		Currency:        paymentCurrency,
		KeyID:           s.keyID,
		CustomerName:    c.Name,
		CustomerPhone:   c.Phone,
	}, nil
}

func (s *PaymentService) ListForOrder(ctx context.Context, actor models.Actor, orderID int) ([]*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.payments.ListByOrder(ctx, orderID)
}

func hmacHex(secret string, data []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks the checkout callback signature, an HMAC-SHA256
// of "orderID|paymentID" keyed with the API secret.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" {
		return false
	}
	expected := hmacHex(secret, []byte(orderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Verify finishes a checkout from the browser callback. A payment already
// captured is returned as is.
func (s *PaymentService) Verify(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Payment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.payments.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentCaptured {
		return p, nil
	}

	if !VerifySignature(s.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		paymentID := req.RazorpayPaymentID
		if err := s.payments.MarkFailed(ctx, req.RazorpayOrderID, &paymentID, "invalid signature"); err != nil {
			s.logger.Error("failed to mark payment failed", zap.String("razorpay_order_id", req.RazorpayOrderID), zap.Error(err))
		}
		return nil, invalid("invalid payment signature")
	}

	var method *string
	if s.gateway != nil {
		details, err := s.gateway.FetchPayment(req.RazorpayPaymentID)
		if err != nil {
			s.logger.Warn("failed to fetch razorpay payment", zap.String("payment_id", req.RazorpayPaymentID), zap.Error(err))
		} else if m, ok := details["method"].(string); ok && m != "" {
			method = &m
		}
	}

	signature := req.RazorpaySignature
	if err := s.capture(ctx, p, req.RazorpayPaymentID, &signature, method); err != nil {
		return nil, err
	}
	return s.payments.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
}

func (s *PaymentService) capture(ctx context.Context, p *models.Payment, paymentID string, signature, method *string) error {
	if err := s.payments.MarkCaptured(ctx, p.RazorpayOrderID, paymentID, signature, method); err != nil {
		return fmt.Errorf("mark payment captured: %w", err)
	}
	o, err := s.orders.Get(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if o.Status == models.OrderPending {
		if err := s.orders.UpdateStatus(ctx, o.ID, models.OrderConfirmed); err != nil {
			return fmt.Errorf("confirm order %d: %w", o.ID, err)
		}
	}
	s.logger.Info("payment captured",
		zap.Int("order_id", p.OrderID),
		zap.String("razorpay_order_id", p.RazorpayOrderID),
		zap.String("payment_id", paymentID))
	return nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Method           string `json:"method"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook applies payment.captured and payment.failed events. The
// body must carry a valid X-Razorpay-Signature; other events are ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.webhookSecret == "" {
		return fmt.Errorf("%w: webhook secret is not configured", ErrUnavailable)
	}
	if !hmac.Equal([]byte(hmacHex(s.webhookSecret, body)), []byte(signature)) {
		return forbidden("invalid webhook signature")
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return invalid("malformed webhook body: %v", err)
	}
	entity := ev.Payload.Payment.Entity

	switch ev.Event {
	case "payment.captured", "payment.failed":
	default:
		s.logger.Debug("ignoring razorpay webhook", zap.String("event", ev.Event))
		return nil
	}
	if entity.OrderID == "" {
		return invalid("webhook payment has no order_id")
	}

	p, err := s.payments.GetByRazorpayOrderID(ctx, entity.OrderID)
	if isNotFound(err) {
		s.logger.Warn("webhook for unknown razorpay order", zap.String("razorpay_order_id", entity.OrderID))
		return nil
	}
	if err != nil {
		return err
	}

	if ev.Event == "payment.failed" {
		reason := entity.ErrorDescription
		if reason == "" {
			reason = "payment failed"
		}
		var paymentID *string
		if entity.ID != "" {
			paymentID = &entity.ID
		}
		return s.payments.MarkFailed(ctx, p.RazorpayOrderID, paymentID, reason)
	}

	if p.Status == models.PaymentCaptured {
		return nil
	}
	var method *string
	if entity.Method != "" {
		method = &entity.Method
	}
	return s.capture(ctx, p, entity.ID, nil, method)
}
