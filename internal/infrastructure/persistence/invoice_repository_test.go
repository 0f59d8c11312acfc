package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

func TestInsertInvoiceWritesHeaderAndLinesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	now := time.Now()
	inv := &models.Invoice{
		ID:           "inv-1",
		Number:       "INV-000001",
		CompanyID:    "co-1",
		Status:       constants.InvoiceStatusDraft,
		IssueDate:    now,
		DueDate:      now.AddDate(0, 0, 30),
		Subtotal:     decimal.NewFromFloat(200),
		TaxAmount:    decimal.NewFromFloat(20),
		TotalAmount:  decimal.NewFromFloat(220),
		CreatedDate:  now,
		ModifiedDate: now,
		Lines: []models.InvoiceLine{
			{
				ID:         "line-1",
				DocumentID: "inv-1",
				Quantity:   decimal.NewFromFloat(2),
				UnitPrice:  decimal.NewFromFloat(100),
				TaxRate:    decimal.NewFromInt(10),
				LineTotal:  decimal.NewFromFloat(200),
				TaxAmount:  decimal.NewFromFloat(20),
			},
		},
	}

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableInvoice)
	lineQuery := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableInvoiceLine)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(headerQuery)).
		WithArgs(inv.ID, inv.Number, inv.CompanyID, inv.Status, inv.IssueDate, inv.DueDate,
			inv.Subtotal, inv.TaxAmount, inv.TotalAmount, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(lineQuery)).
		WithArgs("line-1", "inv-1", "", "", inv.Lines[0].Quantity, inv.Lines[0].UnitPrice,
			inv.Lines[0].TaxRate, inv.Lines[0].LineTotal, inv.Lines[0].TaxAmount).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.InsertInvoice(context.Background(), inv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertInvoiceRollsBackOnLineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	now := time.Now()
	inv := &models.Invoice{
		ID:          "inv-1",
		Number:      "INV-000001",
		Status:      constants.InvoiceStatusDraft,
		IssueDate:   now,
		DueDate:     now,
		CreatedDate: now,
		Lines:       []models.InvoiceLine{{ID: "line-1", DocumentID: "inv-1"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO "+constants.TableInvoice).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO "+constants.TableInvoiceLine).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err = repo.InsertInvoice(context.Background(), inv)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvoiceStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		constants.TableInvoice, constants.FieldStatus, constants.FieldModifiedDate, constants.FieldID)
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(constants.InvoiceStatusSent, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateInvoiceStatus(context.Background(), "missing", constants.InvoiceStatusSent)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFindInvoiceByIDLoadsLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	now := time.Now()
	headerQuery := fmt.Sprintf(`
		SELECT id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableInvoice, constants.FieldID)
	lineQuery := fmt.Sprintf(`
		SELECT id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount
		FROM %s WHERE document_id = ?`, constants.TableInvoiceLine)

	headerRows := sqlmock.NewRows([]string{"id", "number", "company_id", "status", "issue_date", "due_date",
		"subtotal", "tax_amount", "total_amount", "created_date", "last_modified_date"}).
		AddRow("inv-1", "INV-000001", "co-1", constants.InvoiceStatusSent, now, now,
			"200.00", "20.00", "220.00", now, now)
	lineRows := sqlmock.NewRows([]string{"id", "document_id", "product_id", "description", "quantity",
		"unit_price", "tax_rate", "line_total", "tax_amount"}).
		AddRow("line-1", "inv-1", nil, "Widgets", "2", "100.00", "10", "200.00", "20.00")

	mock.ExpectQuery(regexp.QuoteMeta(headerQuery)).WithArgs("inv-1").WillReturnRows(headerRows)
	mock.ExpectQuery(regexp.QuoteMeta(lineQuery)).WithArgs("inv-1").WillReturnRows(lineRows)

	inv, err := repo.FindInvoiceByID(context.Background(), "inv-1")
	assert.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.Number)
	assert.Len(t, inv.Lines, 1)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromFloat(220)))
	assert.True(t, inv.Lines[0].LineTotal.Equal(decimal.NewFromFloat(200)))
}

func TestNextInvoiceNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s",
		constants.TableInvoice)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"max_suffix"}).AddRow(41))

	number, err := repo.NextInvoiceNumber(context.Background(), "inv")
	assert.NoError(t, err)
	assert.Equal(t, "INV-000042", number)
}

// Deleting a draft must not free its number for reuse. With one row
// left and the survivor numbered INV-000002, the next allocation has
// to be INV-000003 or the unique index on number would reject it.
func TestNextInvoiceNumberAfterDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s",
		constants.TableInvoice)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"max_suffix"}).AddRow(2))

	number, err := repo.NextInvoiceNumber(context.Background(), "inv")
	assert.NoError(t, err)
	assert.Equal(t, "INV-000003", number)
}

func TestNextInvoiceNumberEmptyTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInvoiceRepository(db)

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s",
		constants.TableInvoice)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"max_suffix"}).AddRow(0))

	number, err := repo.NextInvoiceNumber(context.Background(), "inv")
	assert.NoError(t, err)
	assert.Equal(t, "INV-000001", number)
}
