package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/expression"
)

func newPricingFixture(t *testing.T) (*PricingService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	svc := NewPricingService(expression.NewEngine(), persistence.NewInvoiceRepository(db))
	return svc, mock, func() { db.Close() }
}

func expectActiveRules(mock sqlmock.Sqlmock, companyID string, rows *sqlmock.Rows) {
	query := fmt.Sprintf(`
		SELECT id, company_id, name, expression, is_active, created_date
		FROM %s WHERE company_id = ? AND is_active = TRUE`, constants.TablePricingRule)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(companyID).WillReturnRows(rows)
}

func TestDiscountForPicksLargestRule(t *testing.T) {
	svc, mock, done := newPricingFixture(t)
	defer done()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "company_id", "name", "expression", "is_active", "created_date"}).
		AddRow("rule-1", "co-1", "Bulk", "IF(quantity >= 10, 15.0, 0.0)", true, now).
		AddRow("rule-2", "co-1", "Loyalty", "5.0", true, now)
	expectActiveRules(mock, "co-1", rows)

	pct := svc.DiscountFor(context.Background(), "co-1", map[string]interface{}{
		"quantity":   12.0,
		"unit_price": 40.0,
		"line_total": 480.0,
	})

	assert.Equal(t, 15.0, pct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountForClampsAtHundred(t *testing.T) {
	svc, mock, done := newPricingFixture(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "company_id", "name", "expression", "is_active", "created_date"}).
		AddRow("rule-1", "co-1", "Broken promo", "250.0", true, time.Now())
	expectActiveRules(mock, "co-1", rows)

	pct := svc.DiscountFor(context.Background(), "co-1", map[string]interface{}{"quantity": 1.0})
	assert.Equal(t, 100.0, pct)
}

func TestDiscountForSkipsFailingRule(t *testing.T) {
	svc, mock, done := newPricingFixture(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "company_id", "name", "expression", "is_active", "created_date"}).
		AddRow("rule-1", "co-1", "Bad", `UPPER(42)`, true, time.Now()).
		AddRow("rule-2", "co-1", "Good", "10.0", true, time.Now())
	expectActiveRules(mock, "co-1", rows)

	pct := svc.DiscountFor(context.Background(), "co-1", map[string]interface{}{"quantity": 1.0})
	assert.Equal(t, 10.0, pct)
}

func TestCreateRuleRejectsInvalidExpression(t *testing.T) {
	svc, _, done := newPricingFixture(t)
	defer done()

	_, err := svc.CreateRule(context.Background(), PricingRuleRequest{
		CompanyID:  "co-1",
		Name:       "Broken",
		Expression: "IF(quantity >=, 1",
	})
	assert.True(t, errors.IsValidation(err))
}
