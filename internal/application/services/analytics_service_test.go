package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/pkg/errors"
)

func TestValidateAcceptsSuiteSelect(t *testing.T) {
	svc := NewAnalyticsService(nil)

	err := svc.Validate("SELECT status, COUNT(*) FROM atlas_invoices GROUP BY status")
	assert.NoError(t, err)
}

func TestValidateAcceptsJoinAcrossSuiteTables(t *testing.T) {
	svc := NewAnalyticsService(nil)

	err := svc.Validate(`SELECT c.name, SUM(i.total_amount)
		FROM atlas_invoices i JOIN atlas_companies c ON c.id = i.company_id
		GROUP BY c.name`)
	assert.NoError(t, err)
}

func TestValidateRejectsMutation(t *testing.T) {
	svc := NewAnalyticsService(nil)

	err := svc.Validate("DELETE FROM atlas_invoices")
	assert.Error(t, err)
}

func TestValidateRejectsMultipleStatements(t *testing.T) {
	svc := NewAnalyticsService(nil)

	err := svc.Validate("SELECT 1; SELECT 2")
	assert.Error(t, err)
}

func TestValidateRejectsForeignTable(t *testing.T) {
	svc := NewAnalyticsService(nil)

	err := svc.Validate("SELECT * FROM mysql.user")
	assert.Error(t, err)
}

func TestQueryReturnsColumnsAndRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	svc := NewAnalyticsService(db)

	mock.ExpectQuery("SELECT status FROM atlas_invoices").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).
			AddRow([]byte("draft")).
			AddRow([]byte("sent")))

	result, err := svc.Query(context.Background(), "SELECT status FROM atlas_invoices")
	assert.NoError(t, err)
	assert.Equal(t, []string{"status"}, result.Columns)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "draft", result.Rows[0][0])
}

// A driver failure mid-iteration must come back as a typed
// persistence error, not the raw driver error.
func TestQueryWrapsRowIterationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	svc := NewAnalyticsService(db)

	rows := sqlmock.NewRows([]string{"status"}).
		AddRow("draft").
		AddRow("sent").
		RowError(1, fmt.Errorf("connection reset"))
	mock.ExpectQuery("SELECT status FROM atlas_invoices").WillReturnRows(rows)

	_, err = svc.Query(context.Background(), "SELECT status FROM atlas_invoices")
	assert.Error(t, err)
	assert.Equal(t, "PERSISTENCE_FAILED", errors.GetErrorCode(err))
}
