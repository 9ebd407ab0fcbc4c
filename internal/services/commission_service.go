package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/cache"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/timeutil"
	"suryaghar-backend/internal/validation"

	"github.com/xuri/excelize/v2"
)

type commissionStore interface {
	List(ctx context.Context, f models.CommissionFilter) ([]*models.Commission, error)
	Get(ctx context.Context, id int) (*models.Commission, error)
	UpdateStatus(ctx context.Context, id int, from, to models.CommissionStatus, paymentRef *string) error
	Summary(ctx context.Context, partnerID *int) (models.CommissionSummary, error)
}

type CommissionService struct {
	commissions commissionStore
	notifier    Notifier
}

func NewCommissionService(commissions commissionStore, notifier Notifier) *CommissionService {
	return &CommissionService{commissions: commissions, notifier: notifier}
}

// List returns every commission for admins, optionally for one partner.
// Everyone else only sees their own.
func (s *CommissionService) List(ctx context.Context, actor models.Actor, status models.CommissionStatus, partnerID *int) ([]*models.Commission, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	f := models.CommissionFilter{Status: status, PartnerID: partnerID}
	if !actor.IsAdmin() {
		id := actor.ID
		f.PartnerID = &id
	}
	return s.commissions.List(ctx, f)
}

func (s *CommissionService) Summary(ctx context.Context, actor models.Actor) (models.CommissionSummary, error) {
	if actor.IsAdmin() {
		return s.commissions.Summary(ctx, nil)
	}
	id := actor.ID
	return s.commissions.Summary(ctx, &id)
}

// UpdateStatus moves a commission one step along pending, approved, paid.
func (s *CommissionService) UpdateStatus(ctx context.Context, actor models.Actor, id int, req *models.UpdateCommissionStatusRequest) (*models.Commission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	cm, err := s.commissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cm.Status.CanAdvanceTo(req.Status) {
		return nil, fmt.Errorf("%w: commission is %s and cannot move to %s", ErrInvalidTransition, cm.Status, req.Status)
	}

	ref := req.PaymentReference
	if req.Status != models.CommissionStatusPaid {
		ref = nil
	}
	err = s.commissions.UpdateStatus(ctx, cm.ID, cm.Status, req.Status, ref)
	if errors.Is(err, ErrConflict) {
		return nil, fmt.Errorf("%w: commission %d changed concurrently", ErrInvalidTransition, cm.ID)
	}
	if err != nil {
		return nil, err
	}
	cache.InvalidateDashboards(ctx)

	notifySafe(ctx, s.notifier, cm.PartnerID, models.NotifyCommissionUpdated,
		"Commission "+string(req.Status),
		fmt.Sprintf("Rs. %s for %s is now %s.", cm.CommissionAmount.StringFixed(2), cm.CustomerName, req.Status),
		strPtr("/commissions"))

	return s.commissions.Get(ctx, cm.ID)
}

var payoutHeaders = []string{
	"Commission ID", "Partner", "Role", "Customer", "Capacity (kW)", "Panel", "Amount (Rs.)",
	"Status", "Payment Reference", "Paid At", "Created At",
}

// ExportPayouts renders the filtered commissions as an XLSX workbook with
// one sheet named after the current financial year.
func (s *CommissionService) ExportPayouts(ctx context.Context, actor models.Actor, status models.CommissionStatus) ([]byte, string, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, "", err
	}
	rows, err := s.List(ctx, actor, status, nil)
	if err != nil {
		return nil, "", err
	}

	now := timeutil.Now()
	sheet := "FY " + timeutil.FinancialYear(now)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	for i, h := range payoutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(payoutHeaders), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i, cm := range rows {
		r := i + 2
		paidAt := ""
		if cm.PaidAt != nil {
			paidAt = timeutil.FormatIST(*cm.PaidAt, timeutil.DateTimeLayout)
		}
		ref := ""
		if cm.PaymentReference != nil {
			ref = *cm.PaymentReference
		}
		values := []any{
			cm.ID, cm.PartnerName, string(cm.PartnerRole), cm.CustomerName,
			cm.CapacityKw.InexactFloat64(), string(cm.PanelType), cm.CommissionAmount.InexactFloat64(),
			string(cm.Status), ref, paidAt, timeutil.FormatIST(cm.CreatedAt, timeutil.DateTimeLayout),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write payout sheet: %w", err)
	}
	name := fmt.Sprintf("commission-payouts-%s.xlsx", timeutil.FormatIST(now, timeutil.FileLayout))
	return buf.Bytes(), name, nil
}
