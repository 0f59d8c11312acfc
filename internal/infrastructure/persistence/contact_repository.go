package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// ContactRepository persists companies, contacts and activities.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ---- companies ----

func (r *ContactRepository) InsertCompany(ctx context.Context, c *models.Company) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, industry, website, annual_value, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableCompany)
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Industry, c.Website, c.AnnualValue, c.CreatedDate, c.ModifiedDate)
	return err
}

func (r *ContactRepository) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT id, name, industry, website, annual_value, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableCompany, constants.FieldID)

	var c models.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Industry, &c.Website, &c.AnnualValue, &c.CreatedDate, &c.ModifiedDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) FindCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT id, name, industry, website, annual_value, created_date, last_modified_date
		FROM %s ORDER BY %s DESC LIMIT ? OFFSET ?`, constants.TableCompany, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.AnnualValue, &c.CreatedDate, &c.ModifiedDate); err != nil {
			return nil, err
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (r *ContactRepository) UpdateCompany(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.partialUpdate(ctx, constants.TableCompany, id, updates)
}

func (r *ContactRepository) DeleteCompany(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableCompany, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ---- contacts ----

func (r *ContactRepository) InsertContact(ctx context.Context, c *models.Contact) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, first_name, last_name, email, phone, title,
			response_rate, content_engagement, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableContact)
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.CompanyID, c.FirstName, c.LastName, c.Email, c.Phone, c.Title,
		c.ResponseRate, c.ContentEngagement, c.CreatedDate, c.ModifiedDate)
	return err
}

const contactColumns = `id, company_id, first_name, last_name, email, phone, title,
	response_rate, content_engagement, created_date, last_modified_date`

func (r *ContactRepository) FindContactByID(ctx context.Context, id string) (*models.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", contactColumns, constants.TableContact, constants.FieldID)
	return scanContact(r.db.QueryRowContext(ctx, query, id))
}

func scanContact(row *sql.Row) (*models.Contact, error) {
	var c models.Contact
	var companyID sql.NullString
	err := row.Scan(&c.ID, &companyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Title,
		&c.ResponseRate, &c.ContentEngagement, &c.CreatedDate, &c.ModifiedDate)
	if err != nil {
		return nil, err
	}
	c.CompanyID = companyID.String
	return &c, nil
}

// SearchContacts filters by a case-insensitive term over name and email.
func (r *ContactRepository) SearchContacts(ctx context.Context, term string, limit, offset int) ([]*models.Contact, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE first_name LIKE ? OR last_name LIKE ? OR email LIKE ?
		ORDER BY %s DESC LIMIT ? OFFSET ?`, contactColumns, constants.TableContact, constants.FieldCreatedDate)

	like := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx, query, like, like, like, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *ContactRepository) FindContacts(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT ? OFFSET ?",
		contactColumns, constants.TableContact, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]*models.Contact, error) {
	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		var companyID sql.NullString
		if err := rows.Scan(&c.ID, &companyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Title,
			&c.ResponseRate, &c.ContentEngagement, &c.CreatedDate, &c.ModifiedDate); err != nil {
			return nil, err
		}
		c.CompanyID = companyID.String
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) UpdateContact(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.partialUpdate(ctx, constants.TableContact, id, updates)
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableContact, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ---- activities ----

func (r *ContactRepository) InsertActivity(ctx context.Context, a *models.Activity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, contact_id, type, subject, sentiment, occurred_at, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableActivity)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.ContactID, a.Type, a.Subject, a.Sentiment, a.OccurredAt, a.CreatedDate)
	return err
}

func (r *ContactRepository) FindActivities(ctx context.Context, contactID string, limit int) ([]*models.Activity, error) {
	query := fmt.Sprintf(`
		SELECT id, contact_id, type, subject, sentiment, occurred_at, created_date
		FROM %s WHERE contact_id = ? ORDER BY occurred_at DESC LIMIT ?`, constants.TableActivity)

	rows, err := r.db.QueryContext(ctx, query, contactID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.ContactID, &a.Type, &a.Subject, &a.Sentiment, &a.OccurredAt, &a.CreatedDate); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

// AggregateSignals computes the scoring inputs for one contact from
// its stored activities in a single round trip.
func (r *ContactRepository) AggregateSignals(ctx context.Context, contactID string) (*models.EngagementSignals, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0),
			MAX(occurred_at)
		FROM %s WHERE contact_id = ?`, constants.TableActivity)

	var s models.EngagementSignals
	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, query, constants.SentimentNegative, constants.ActivityTypeTicket, contactID).
		Scan(&s.ActivityCount, &s.NegativeSentiment, &s.SupportTickets, &lastActivity)
	if err != nil {
		return nil, err
	}
	s.LastActivityAt = nullTimePtr(lastActivity)
	return &s, nil
}

func (r *ContactRepository) partialUpdate(ctx context.Context, table, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	for k, v := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
