package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

func TestInsertCompany(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContactRepository(db)

	now := time.Now()
	c := &models.Company{
		ID:           "co-1",
		Name:         "Acme Corp",
		Industry:     "manufacturing",
		Website:      "https://acme.example",
		AnnualValue:  120000,
		CreatedDate:  now,
		ModifiedDate: now,
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, industry, website, annual_value, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableCompany)
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(c.ID, c.Name, c.Industry, c.Website, c.AnnualValue, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.InsertCompany(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindContactByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContactRepository(db)

	now := time.Now()
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", contactColumns, constants.TableContact, constants.FieldID)

	rows := sqlmock.NewRows([]string{"id", "company_id", "first_name", "last_name", "email", "phone", "title",
		"response_rate", "content_engagement", "created_date", "last_modified_date"}).
		AddRow("ct-1", "co-1", "Ada", "Lovelace", "ada@acme.example", "", "CTO", 0.5, 0.4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("ct-1").WillReturnRows(rows)

	c, err := repo.FindContactByID(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.Equal(t, "ct-1", c.ID)
	assert.Equal(t, "co-1", c.CompanyID)
	assert.Equal(t, 0.5, c.ResponseRate)
}

func TestSearchContacts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContactRepository(db)

	now := time.Now()
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE first_name LIKE ? OR last_name LIKE ? OR email LIKE ?
		ORDER BY %s DESC LIMIT ? OFFSET ?`, contactColumns, constants.TableContact, constants.FieldCreatedDate)

	rows := sqlmock.NewRows([]string{"id", "company_id", "first_name", "last_name", "email", "phone", "title",
		"response_rate", "content_engagement", "created_date", "last_modified_date"}).
		AddRow("ct-1", nil, "Ada", "Lovelace", "ada@acme.example", "", "CTO", 0.5, 0.4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%ada%", "%ada%", "%ada%", 20, 0).
		WillReturnRows(rows)

	contacts, err := repo.SearchContacts(context.Background(), "ada", 20, 0)
	assert.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, "", contacts[0].CompanyID)
}

func TestAggregateSignals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContactRepository(db)

	lastActivity := time.Now().Add(-48 * time.Hour)
	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0),
			MAX(occurred_at)
		FROM %s WHERE contact_id = ?`, constants.TableActivity)

	rows := sqlmock.NewRows([]string{"count", "negative", "tickets", "last"}).
		AddRow(12, 2, 3, lastActivity)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(constants.SentimentNegative, constants.ActivityTypeTicket, "ct-1").
		WillReturnRows(rows)

	signals, err := repo.AggregateSignals(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.Equal(t, 12, signals.ActivityCount)
	assert.Equal(t, 2, signals.NegativeSentiment)
	assert.Equal(t, 3, signals.SupportTickets)
	assert.NotNil(t, signals.LastActivityAt)
}

// A contact with no activities yields zero counts and a nil timestamp.
func TestAggregateSignalsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContactRepository(db)

	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0),
			MAX(occurred_at)
		FROM %s WHERE contact_id = ?`, constants.TableActivity)

	rows := sqlmock.NewRows([]string{"count", "negative", "tickets", "last"}).
		AddRow(0, 0, 0, nil)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(constants.SentimentNegative, constants.ActivityTypeTicket, "ct-2").
		WillReturnRows(rows)

	signals, err := repo.AggregateSignals(context.Background(), "ct-2")
	assert.NoError(t, err)
	assert.Equal(t, 0, signals.ActivityCount)
	assert.Nil(t, signals.LastActivityAt)
}
