package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/money"
	"github.com/atlaserp/backend/pkg/utils"
)

// invoiceTransitions guards the document lifecycle. Paid and void are
// terminal.
var invoiceTransitions = map[string][]string{
	constants.InvoiceStatusDraft:   {constants.InvoiceStatusSent, constants.InvoiceStatusVoid},
	constants.InvoiceStatusSent:    {constants.InvoiceStatusPaid, constants.InvoiceStatusOverdue, constants.InvoiceStatusVoid},
	constants.InvoiceStatusOverdue: {constants.InvoiceStatusPaid, constants.InvoiceStatusVoid},
}

// InvoiceService owns invoices, credit notes, recurring templates and
// invoice analytics.
type InvoiceService struct {
	invoices *persistence.InvoiceRepository
	pricing  *PricingService
}

func NewInvoiceService(invoices *persistence.InvoiceRepository, pricing *PricingService) *InvoiceService {
	return &InvoiceService{invoices: invoices, pricing: pricing}
}

// LineRequest is one requested document line.
type LineRequest struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

type CreateInvoiceRequest struct {
	CompanyID string        `json:"company_id" binding:"required"`
	IssueDate time.Time     `json:"issue_date"`
	DueDate   time.Time     `json:"due_date"`
	Lines     []LineRequest `json:"lines" binding:"required"`
}

func validateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return errors.NewValidationError("lines", "At least one line is required")
	}
	for _, l := range lines {
		if l.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.NewValidationError("quantity", "Must be positive")
		}
		if l.UnitPrice.IsNegative() {
			return errors.NewValidationError("unit_price", "Must not be negative")
		}
		if l.TaxRate.IsNegative() {
			return errors.NewValidationError("tax_rate", "Must not be negative")
		}
	}
	return nil
}

// buildLines computes line amounts, applying any pricing-rule discount
// to the pre-tax line total before tax is taken.
func (s *InvoiceService) buildLines(ctx context.Context, companyID, documentID string, reqs []LineRequest) ([]models.InvoiceLine, money.DocumentTotals) {
	lines := make([]models.InvoiceLine, 0, len(reqs))
	amounts := make([]money.LineAmounts, 0, len(reqs))

	for _, req := range reqs {
		computed := money.ComputeLine(req.Quantity, req.UnitPrice, req.TaxRate)

		if s.pricing != nil {
			env := map[string]interface{}{
				"quantity":   req.Quantity.InexactFloat64(),
				"unit_price": req.UnitPrice.InexactFloat64(),
				"line_total": computed.LineTotal.InexactFloat64(),
			}
			if pct := s.pricing.DiscountFor(ctx, companyID, env); pct > 0 {
				discounted := money.ApplyDiscount(computed.LineTotal, pct)
				tax := discounted.Mul(req.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
				computed = money.LineAmounts{
					LineTotal: discounted,
					TaxAmount: tax,
					Total:     discounted.Add(tax),
				}
			}
		}

		lines = append(lines, models.InvoiceLine{
			ID:          utils.GenerateID(),
			DocumentID:  documentID,
			ProductID:   req.ProductID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			TaxRate:     req.TaxRate,
			LineTotal:   computed.LineTotal,
			TaxAmount:   computed.TaxAmount,
		})
		amounts = append(amounts, computed)
	}

	return lines, money.SumLines(amounts)
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, 30)
	}
	if dueDate.Before(issueDate) {
		return nil, errors.NewValidationError("due_date", "Must not precede the issue date")
	}

	number, err := s.invoices.NextInvoiceNumber(ctx, "inv")
	if err != nil {
		return nil, errors.NewPersistenceError("allocate invoice number", err)
	}

	now := time.Now()
	id := utils.GenerateID()
	lines, totals := s.buildLines(ctx, req.CompanyID, id, req.Lines)

	inv := &models.Invoice{
		ID:           id,
		Number:       number,
		CompanyID:    req.CompanyID,
		Status:       constants.InvoiceStatusDraft,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Subtotal:     totals.Subtotal,
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.TotalAmount,
		Lines:        lines,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.invoices.InsertInvoice(ctx, inv); err != nil {
		return nil, errors.NewPersistenceError("create invoice", err)
	}
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.invoices.FindInvoiceByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Invoice", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get invoice", err)
	}
	return inv, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error) {
	if status != "" && !isValidInvoiceStatus(status) {
		return nil, errors.NewValidationError("status", "Unknown invoice status")
	}
	invoices, err := s.invoices.FindInvoices(ctx, status, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list invoices", err)
	}
	return invoices, nil
}

// TransitionStatus moves an invoice through its lifecycle, rejecting
// jumps the state machine does not allow.
func (s *InvoiceService) TransitionStatus(ctx context.Context, id, next string) error {
	if !isValidInvoiceStatus(next) {
		return errors.NewValidationError("status", "Unknown invoice status")
	}

	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if !transitionAllowed(invoiceTransitions, inv.Status, next) {
		return errors.NewValidationError("status", "Cannot move invoice from "+inv.Status+" to "+next)
	}

	if err := s.invoices.UpdateInvoiceStatus(ctx, id, next); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("Invoice", id)
		}
		return errors.NewPersistenceError("update invoice status", err)
	}
	return nil
}

// DeleteInvoice removes a draft. Issued documents are voided, not
// deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != constants.InvoiceStatusDraft {
		return errors.NewValidationError("status", "Only draft invoices can be deleted")
	}
	if err := s.invoices.DeleteInvoice(ctx, id); err != nil {
		return errors.NewPersistenceError("delete invoice", err)
	}
	return nil
}

// ---- credit notes ----

type CreateCreditNoteRequest struct {
	InvoiceID string        `json:"invoice_id" binding:"required"`
	Reason    string        `json:"reason"`
	Lines     []LineRequest `json:"lines" binding:"required"`
}

func (s *InvoiceService) CreateCreditNote(ctx context.Context, req CreateCreditNoteRequest) (*models.CreditNote, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	inv, err := s.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == constants.InvoiceStatusDraft || inv.Status == constants.InvoiceStatusVoid {
		return nil, errors.NewValidationError("invoice_id", "Cannot credit a draft or void invoice")
	}

	number, err := s.invoices.NextCreditNoteNumber(ctx, "cn")
	if err != nil {
		return nil, errors.NewPersistenceError("allocate credit note number", err)
	}

	id := utils.GenerateID()
	lines, totals := s.buildLines(ctx, inv.CompanyID, id, req.Lines)

	if totals.TotalAmount.GreaterThan(inv.TotalAmount) {
		return nil, errors.NewValidationError("lines", "Credit note exceeds the invoice total")
	}

	cn := &models.CreditNote{
		ID:          id,
		Number:      number,
		InvoiceID:   inv.ID,
		CompanyID:   inv.CompanyID,
		Reason:      req.Reason,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
		Lines:       lines,
		CreatedDate: time.Now(),
	}
	if err := s.invoices.InsertCreditNote(ctx, cn); err != nil {
		return nil, errors.NewPersistenceError("create credit note", err)
	}
	return cn, nil
}

func (s *InvoiceService) GetCreditNote(ctx context.Context, id string) (*models.CreditNote, error) {
	cn, err := s.invoices.FindCreditNoteByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Credit note", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get credit note", err)
	}
	return cn, nil
}

// ---- recurring templates ----

type TemplateRequest struct {
	CompanyID   string          `json:"company_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Schedule    string          `json:"schedule" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func (s *InvoiceService) CreateTemplate(ctx context.Context, req TemplateRequest) (*models.RecurringTemplate, error) {
	schedule, err := cron.ParseStandard(req.Schedule)
	if err != nil {
		return nil, errors.NewValidationError("schedule", "Invalid cron expression: "+err.Error())
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewValidationError("quantity", "Must be positive")
	}
	if req.UnitPrice.IsNegative() || req.TaxRate.IsNegative() {
		return nil, errors.NewValidationError("unit_price", "Must not be negative")
	}

	nextRun := schedule.Next(time.Now())
	template := &models.RecurringTemplate{
		ID:          utils.GenerateID(),
		CompanyID:   req.CompanyID,
		Description: req.Description,
		Schedule:    req.Schedule,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
		IsActive:    true,
		NextRunAt:   &nextRun,
		CreatedDate: time.Now(),
	}
	if err := s.invoices.InsertTemplate(ctx, template); err != nil {
		return nil, errors.NewPersistenceError("create template", err)
	}
	return template, nil
}

func (s *InvoiceService) ListTemplates(ctx context.Context) ([]*models.RecurringTemplate, error) {
	templates, err := s.invoices.FindTemplates(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("list templates", err)
	}
	return templates, nil
}

func (s *InvoiceService) SetTemplateActive(ctx context.Context, id string, active bool) error {
	if err := s.invoices.SetTemplateActive(ctx, id, active); err != nil {
		return errors.NewPersistenceError("toggle template", err)
	}
	return nil
}

// ---- analytics ----

// Analytics summarizes invoices by status and ages unpaid totals.
func (s *InvoiceService) Analytics(ctx context.Context, now time.Time) (*models.InvoiceAnalytics, error) {
	counts, totals, err := s.invoices.CountTotalsByStatus(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("invoice analytics", err)
	}

	unpaid, err := s.invoices.UnpaidInvoices(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("invoice aging", err)
	}

	aging := models.AgingBuckets{
		Current:    decimal.Zero,
		Days1To30:  decimal.Zero,
		Days31To60: decimal.Zero,
		Days61To90: decimal.Zero,
		DaysOver90: decimal.Zero,
	}
	for _, inv := range unpaid {
		overdueDays := int(now.Sub(inv.DueDate).Hours() / 24)
		switch {
		case overdueDays <= 0:
			aging.Current = aging.Current.Add(inv.TotalAmount)
		case overdueDays <= 30:
			aging.Days1To30 = aging.Days1To30.Add(inv.TotalAmount)
		case overdueDays <= 60:
			aging.Days31To60 = aging.Days31To60.Add(inv.TotalAmount)
		case overdueDays <= 90:
			aging.Days61To90 = aging.Days61To90.Add(inv.TotalAmount)
		default:
			aging.DaysOver90 = aging.DaysOver90.Add(inv.TotalAmount)
		}
	}

	return &models.InvoiceAnalytics{
		CountByStatus: counts,
		TotalByStatus: totals,
		Aging:         aging,
	}, nil
}

func isValidInvoiceStatus(status string) bool {
	switch status {
	case constants.InvoiceStatusDraft, constants.InvoiceStatusSent, constants.InvoiceStatusPaid,
		constants.InvoiceStatusOverdue, constants.InvoiceStatusVoid:
		return true
	}
	return false
}

// transitionAllowed checks a lifecycle map; absent keys are terminal.
func transitionAllowed(transitions map[string][]string, from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
