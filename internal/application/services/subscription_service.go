package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/utils"
)

// churnWindow is the lookback for the churn-rate metric.
const churnWindow = 30 * 24 * time.Hour

// SubscriptionService owns recurring product engagements and their
// revenue metrics.
type SubscriptionService struct {
	subscriptions *persistence.SubscriptionRepository
}

func NewSubscriptionService(subscriptions *persistence.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions}
}

type SubscriptionRequest struct {
	CompanyID    string    `json:"company_id" binding:"required"`
	ProductName  string    `json:"product_name" binding:"required"`
	MonthlyPrice float64   `json:"monthly_price"`
	StartedAt    time.Time `json:"started_at"`
}

func (s *SubscriptionService) Create(ctx context.Context, req SubscriptionRequest) (*models.Subscription, error) {
	if req.MonthlyPrice <= 0 {
		return nil, errors.NewValidationError("monthly_price", "Must be positive")
	}

	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	now := time.Now()
	sub := &models.Subscription{
		ID:           utils.GenerateID(),
		CompanyID:    req.CompanyID,
		ProductName:  req.ProductName,
		MonthlyPrice: req.MonthlyPrice,
		Status:       constants.SubscriptionStatusActive,
		StartedAt:    startedAt,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.subscriptions.Insert(ctx, sub); err != nil {
		return nil, errors.NewPersistenceError("create subscription", err)
	}
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (*models.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Subscription", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get subscription", err)
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	if status != "" && !isValidSubscriptionStatus(status) {
		return nil, errors.NewValidationError("status", "Unknown subscription status")
	}
	subs, err := s.subscriptions.FindAll(ctx, status, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list subscriptions", err)
	}
	return subs, nil
}

// Pause suspends billing on an active subscription.
func (s *SubscriptionService) Pause(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, constants.SubscriptionStatusActive, constants.SubscriptionStatusPaused, nil)
}

// Resume reactivates a paused subscription.
func (s *SubscriptionService) Resume(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, constants.SubscriptionStatusPaused, constants.SubscriptionStatusActive, nil)
}

// Cancel ends a subscription. Cancellation is terminal and timestamps
// cancelled_at for the churn metric.
func (s *SubscriptionService) Cancel(ctx context.Context, id string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status == constants.SubscriptionStatusCancelled {
		return errors.NewValidationError("status", "Subscription is already cancelled")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       constants.SubscriptionStatusCancelled,
		"cancelled_at": now,
	}
	if err := s.subscriptions.Update(ctx, id, updates); err != nil {
		return errors.NewPersistenceError("cancel subscription", err)
	}
	return nil
}

func (s *SubscriptionService) setStatus(ctx context.Context, id, from, to string, extra map[string]interface{}) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != from {
		return errors.NewValidationError("status", "Cannot move subscription from "+sub.Status+" to "+to)
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	if err := s.subscriptions.Update(ctx, id, updates); err != nil {
		return errors.NewPersistenceError("update subscription", err)
	}
	return nil
}

// Metrics reports active count, MRR, and the churn rate over the last
// 30 days (cancellations divided by the base active at window start).
func (s *SubscriptionService) Metrics(ctx context.Context) (*models.SubscriptionMetrics, error) {
	count, mrr, err := s.subscriptions.ActiveMetrics(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("subscription metrics", err)
	}

	windowStart := time.Now().Add(-churnWindow)
	cancelled, err := s.subscriptions.CountCancelledSince(ctx, windowStart)
	if err != nil {
		return nil, errors.NewPersistenceError("subscription metrics", err)
	}
	baseline, err := s.subscriptions.CountActiveAt(ctx, windowStart)
	if err != nil {
		return nil, errors.NewPersistenceError("subscription metrics", err)
	}

	churnRate := 0.0
	if baseline > 0 {
		churnRate = float64(cancelled) / float64(baseline)
	}

	return &models.SubscriptionMetrics{
		ActiveCount: count,
		MRR:         mrr,
		ChurnRate:   churnRate,
	}, nil
}

func isValidSubscriptionStatus(status string) bool {
	switch status {
	case constants.SubscriptionStatusActive, constants.SubscriptionStatusPaused, constants.SubscriptionStatusCancelled:
		return true
	}
	return false
}
