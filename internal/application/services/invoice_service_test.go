package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
)

func newInvoiceFixture(t *testing.T) (*InvoiceService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	svc := NewInvoiceService(persistence.NewInvoiceRepository(db), nil)
	return svc, mock, func() { db.Close() }
}

func expectFindInvoice(mock sqlmock.Sqlmock, id, status string) {
	now := time.Now()
	headerQuery := fmt.Sprintf(`
		SELECT id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableInvoice, constants.FieldID)
	mock.ExpectQuery(regexp.QuoteMeta(headerQuery)).WithArgs(id).WillReturnRows(
		sqlmock.NewRows([]string{"id", "number", "company_id", "status", "issue_date", "due_date",
			"subtotal", "tax_amount", "total_amount", "created_date", "last_modified_date"}).
			AddRow(id, "INV-000007", "co-1", status, now, now.AddDate(0, 0, 30),
				"100.00", "10.00", "110.00", now, now))

	lineQuery := fmt.Sprintf(`
		SELECT id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount
		FROM %s WHERE document_id = ?`, constants.TableInvoiceLine)
	mock.ExpectQuery(regexp.QuoteMeta(lineQuery)).WithArgs(id).WillReturnRows(
		sqlmock.NewRows([]string{"id", "document_id", "product_id", "description", "quantity",
			"unit_price", "tax_rate", "line_total", "tax_amount"}))
}

func TestTransitionStatusDraftToSent(t *testing.T) {
	svc, mock, done := newInvoiceFixture(t)
	defer done()

	expectFindInvoice(mock, "inv-1", constants.InvoiceStatusDraft)

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		constants.TableInvoice, constants.FieldStatus, constants.FieldModifiedDate, constants.FieldID)
	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs(constants.InvoiceStatusSent, sqlmock.AnyArg(), "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.TransitionStatus(context.Background(), "inv-1", constants.InvoiceStatusSent)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusPaidIsTerminal(t *testing.T) {
	svc, mock, done := newInvoiceFixture(t)
	defer done()

	expectFindInvoice(mock, "inv-1", constants.InvoiceStatusPaid)

	err := svc.TransitionStatus(context.Background(), "inv-1", constants.InvoiceStatusSent)
	assert.True(t, errors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, done := newInvoiceFixture(t)
	defer done()

	err := svc.TransitionStatus(context.Background(), "inv-1", "shipped")
	assert.True(t, errors.IsValidation(err))
}

func TestDeleteInvoiceRejectsSentDocument(t *testing.T) {
	svc, mock, done := newInvoiceFixture(t)
	defer done()

	expectFindInvoice(mock, "inv-1", constants.InvoiceStatusSent)

	err := svc.DeleteInvoice(context.Background(), "inv-1")
	assert.True(t, errors.IsValidation(err))
}

func TestCreateInvoiceRejectsEmptyLines(t *testing.T) {
	svc, _, done := newInvoiceFixture(t)
	defer done()

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{CompanyID: "co-1"})
	assert.True(t, errors.IsValidation(err))
}

func TestCreateInvoiceRejectsDueBeforeIssue(t *testing.T) {
	svc, _, done := newInvoiceFixture(t)
	defer done()

	issue := time.Now()
	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		CompanyID: "co-1",
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, -1),
		Lines:     []LineRequest{{Description: "Support", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)}},
	})
	assert.True(t, errors.IsValidation(err))
}

func TestCreateTemplateRejectsBadSchedule(t *testing.T) {
	svc, _, done := newInvoiceFixture(t)
	defer done()

	_, err := svc.CreateTemplate(context.Background(), TemplateRequest{
		CompanyID:   "co-1",
		Description: "Monthly retainer",
		Schedule:    "every other tuesday",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(50),
	})
	assert.True(t, errors.IsValidation(err))
}
