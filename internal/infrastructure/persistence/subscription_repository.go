package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// SubscriptionRepository persists recurring product engagements.
type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Insert(ctx context.Context, s *models.Subscription) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, product_name, monthly_price, status,
			started_at, cancelled_at, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableSubscription)
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.CompanyID, s.ProductName, s.MonthlyPrice, s.Status,
		s.StartedAt, timePtrValue(s.CancelledAt), s.CreatedDate, s.ModifiedDate)
	return err
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, product_name, monthly_price, status,
			started_at, cancelled_at, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableSubscription, constants.FieldID)

	var s models.Subscription
	var cancelledAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.ProductName, &s.MonthlyPrice, &s.Status,
		&s.StartedAt, &cancelledAt, &s.CreatedDate, &s.ModifiedDate)
	if err != nil {
		return nil, err
	}
	s.CancelledAt = nullTimePtr(cancelledAt)
	return &s, nil
}

func (r *SubscriptionRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, product_name, monthly_price, status,
			started_at, cancelled_at, created_date, last_modified_date
		FROM %s`, constants.TableSubscription)
	args := []interface{}{}
	if status != "" {
		query += fmt.Sprintf(" WHERE %s = ?", constants.FieldStatus)
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT ? OFFSET ?", constants.FieldCreatedDate)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*models.Subscription, 0)
	for rows.Next() {
		var s models.Subscription
		var cancelledAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ProductName, &s.MonthlyPrice, &s.Status,
			&s.StartedAt, &cancelledAt, &s.CreatedDate, &s.ModifiedDate); err != nil {
			return nil, err
		}
		s.CancelledAt = nullTimePtr(cancelledAt)
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	for k, v := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}
	setClauses = append(setClauses, fmt.Sprintf("%s = ?", constants.FieldModifiedDate))
	args = append(args, time.Now())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		constants.TableSubscription, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ActiveMetrics returns the count and MRR of active subscriptions.
func (r *SubscriptionRepository) ActiveMetrics(ctx context.Context) (int, float64, error) {
	var count int
	var mrr float64
	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(monthly_price), 0) FROM %s WHERE %s = ?",
		constants.TableSubscription, constants.FieldStatus)
	err := r.db.QueryRowContext(ctx, query, constants.SubscriptionStatusActive).Scan(&count, &mrr)
	return count, mrr, err
}

// CountCancelledSince counts subscriptions cancelled at or after the cutoff.
func (r *SubscriptionRepository) CountCancelledSince(ctx context.Context, cutoff time.Time) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ? AND cancelled_at >= ?",
		constants.TableSubscription, constants.FieldStatus)
	err := r.db.QueryRowContext(ctx, query, constants.SubscriptionStatusCancelled, cutoff).Scan(&count)
	return count, err
}

// CountActiveAt counts subscriptions that had started and were not yet
// cancelled at the given instant.
func (r *SubscriptionRepository) CountActiveAt(ctx context.Context, at time.Time) (int, error) {
	var count int
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE started_at <= ? AND (cancelled_at IS NULL OR cancelled_at > ?)`, constants.TableSubscription)
	err := r.db.QueryRowContext(ctx, query, at, at).Scan(&count)
	return count, err
}
