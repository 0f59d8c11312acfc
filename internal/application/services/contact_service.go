package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/auth"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/scoring"
	"github.com/atlaserp/backend/pkg/utils"
)

// ContactService owns companies, contacts, activities and the
// engagement/churn analytics computed from them.
type ContactService struct {
	contacts *persistence.ContactRepository
}

func NewContactService(contacts *persistence.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// ---- companies ----

type CompanyRequest struct {
	Name        string  `json:"name" binding:"required"`
	Industry    string  `json:"industry"`
	Website     string  `json:"website"`
	AnnualValue float64 `json:"annual_value"`
}

func (s *ContactService) CreateCompany(ctx context.Context, req CompanyRequest) (*models.Company, error) {
	if req.AnnualValue < 0 {
		return nil, errors.NewValidationError("annual_value", "Must not be negative")
	}

	now := time.Now()
	company := &models.Company{
		ID:           utils.GenerateID(),
		Name:         req.Name,
		Industry:     req.Industry,
		Website:      req.Website,
		AnnualValue:  req.AnnualValue,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.contacts.InsertCompany(ctx, company); err != nil {
		return nil, errors.NewPersistenceError("create company", err)
	}
	return company, nil
}

func (s *ContactService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.contacts.FindCompanyByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Company", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get company", err)
	}
	return company, nil
}

func (s *ContactService) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	companies, err := s.contacts.FindCompanies(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list companies", err)
	}
	return companies, nil
}

func (s *ContactService) UpdateCompany(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.GetCompany(ctx, id); err != nil {
		return err
	}
	filtered, err := filterUpdates(updates, "name", "industry", "website", "annual_value")
	if err != nil {
		return err
	}
	if err := s.contacts.UpdateCompany(ctx, id, filtered); err != nil {
		return errors.NewPersistenceError("update company", err)
	}
	return nil
}

func (s *ContactService) DeleteCompany(ctx context.Context, id string) error {
	if _, err := s.GetCompany(ctx, id); err != nil {
		return err
	}
	if err := s.contacts.DeleteCompany(ctx, id); err != nil {
		return errors.NewPersistenceError("delete company", err)
	}
	return nil
}

// ---- contacts ----

type ContactRequest struct {
	CompanyID         string  `json:"company_id"`
	FirstName         string  `json:"first_name" binding:"required"`
	LastName          string  `json:"last_name" binding:"required"`
	Email             string  `json:"email" binding:"required"`
	Phone             string  `json:"phone"`
	Title             string  `json:"title"`
	ResponseRate      float64 `json:"response_rate"`
	ContentEngagement float64 `json:"content_engagement"`
}

func (s *ContactService) CreateContact(ctx context.Context, req ContactRequest) (*models.Contact, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !auth.IsValidEmail(email) {
		return nil, errors.NewValidationError("email", "Invalid email address")
	}
	if req.ResponseRate < 0 || req.ResponseRate > 1 {
		return nil, errors.NewValidationError("response_rate", "Must be in [0, 1]")
	}
	if req.ContentEngagement < 0 || req.ContentEngagement > 1 {
		return nil, errors.NewValidationError("content_engagement", "Must be in [0, 1]")
	}
	if req.CompanyID != "" {
		if _, err := s.GetCompany(ctx, req.CompanyID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	contact := &models.Contact{
		ID:                utils.GenerateID(),
		CompanyID:         req.CompanyID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		Phone:             req.Phone,
		Title:             req.Title,
		ResponseRate:      req.ResponseRate,
		ContentEngagement: req.ContentEngagement,
		CreatedDate:       now,
		ModifiedDate:      now,
	}
	if err := s.contacts.InsertContact(ctx, contact); err != nil {
		return nil, errors.NewPersistenceError("create contact", err)
	}
	return contact, nil
}

func (s *ContactService) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := s.contacts.FindContactByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Contact", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get contact", err)
	}
	return contact, nil
}

// ListContacts returns a page, optionally filtered by a search term
// over names and email.
func (s *ContactService) ListContacts(ctx context.Context, term string, limit, offset int) ([]*models.Contact, error) {
	var (
		contacts []*models.Contact
		err      error
	)
	if term != "" {
		contacts, err = s.contacts.SearchContacts(ctx, term, normalizeLimit(limit), offset)
	} else {
		contacts, err = s.contacts.FindContacts(ctx, normalizeLimit(limit), offset)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("list contacts", err)
	}
	return contacts, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.GetContact(ctx, id); err != nil {
		return err
	}
	filtered, err := filterUpdates(updates,
		"company_id", "first_name", "last_name", "email", "phone", "title",
		"response_rate", "content_engagement")
	if err != nil {
		return err
	}
	if err := s.contacts.UpdateContact(ctx, id, filtered); err != nil {
		return errors.NewPersistenceError("update contact", err)
	}
	return nil
}

func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	if _, err := s.GetContact(ctx, id); err != nil {
		return err
	}
	if err := s.contacts.DeleteContact(ctx, id); err != nil {
		return errors.NewPersistenceError("delete contact", err)
	}
	return nil
}

// ---- activities ----

type ActivityRequest struct {
	Type       string    `json:"type" binding:"required"`
	Subject    string    `json:"subject"`
	Sentiment  string    `json:"sentiment"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *ContactService) RecordActivity(ctx context.Context, contactID string, req ActivityRequest) (*models.Activity, error) {
	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	if !isValidActivityType(req.Type) {
		return nil, errors.NewValidationError("type", "Unknown activity type")
	}
	if req.Sentiment != "" && !isValidSentiment(req.Sentiment) {
		return nil, errors.NewValidationError("sentiment", "Unknown sentiment")
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	activity := &models.Activity{
		ID:          utils.GenerateID(),
		ContactID:   contactID,
		Type:        req.Type,
		Subject:     req.Subject,
		Sentiment:   req.Sentiment,
		OccurredAt:  occurredAt,
		CreatedDate: time.Now(),
	}
	if err := s.contacts.InsertActivity(ctx, activity); err != nil {
		return nil, errors.NewPersistenceError("record activity", err)
	}
	return activity, nil
}

func (s *ContactService) ListActivities(ctx context.Context, contactID string, limit int) ([]*models.Activity, error) {
	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	activities, err := s.contacts.FindActivities(ctx, contactID, normalizeLimit(limit))
	if err != nil {
		return nil, errors.NewPersistenceError("list activities", err)
	}
	return activities, nil
}

// ---- analytics ----

// ContactEngagement pairs a contact with its computed engagement score.
type ContactEngagement struct {
	ContactID string                   `json:"contact_id"`
	Signals   models.EngagementSignals `json:"signals"`
	scoring.EngagementResult
}

// EngagementScore aggregates stored activity signals and applies the
// engagement formula.
func (s *ContactService) EngagementScore(ctx context.Context, contactID string) (*ContactEngagement, error) {
	contact, err := s.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	signals, err := s.contacts.AggregateSignals(ctx, contactID)
	if err != nil {
		return nil, errors.NewPersistenceError("aggregate signals", err)
	}

	result := scoring.ScoreEngagement(scoring.EngagementInput{
		ActivityCount:     signals.ActivityCount,
		ResponseRate:      contact.ResponseRate,
		ContentEngagement: contact.ContentEngagement,
	})

	return &ContactEngagement{
		ContactID:        contactID,
		Signals:          *signals,
		EngagementResult: result,
	}, nil
}

// ContactChurn pairs a contact with its churn risk assessment.
type ContactChurn struct {
	ContactID         string `json:"contact_id"`
	DaysSinceActivity int    `json:"days_since_activity"`
	scoring.ChurnResult
}

// ChurnRisk assesses disengagement from activity recency, negative
// sentiment and support ticket volume. Revenue at risk uses the
// contact's company annual value when the contact belongs to one.
func (s *ContactService) ChurnRisk(ctx context.Context, contactID string) (*ContactChurn, error) {
	contact, err := s.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	signals, err := s.contacts.AggregateSignals(ctx, contactID)
	if err != nil {
		return nil, errors.NewPersistenceError("aggregate signals", err)
	}

	since := contact.CreatedDate
	if signals.LastActivityAt != nil {
		since = *signals.LastActivityAt
	}
	days := int(time.Since(since).Hours() / 24)

	estimatedValue := 0.0
	if contact.CompanyID != "" {
		company, err := s.GetCompany(ctx, contact.CompanyID)
		if err == nil {
			estimatedValue = company.AnnualValue
		} else if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	result := scoring.ScoreChurn(scoring.ChurnInput{
		DaysSinceActivity: days,
		NegativeSentiment: signals.NegativeSentiment,
		SupportTickets:    signals.SupportTickets,
		EstimatedValue:    estimatedValue,
	})

	return &ContactChurn{
		ContactID:         contactID,
		DaysSinceActivity: days,
		ChurnResult:       result,
	}, nil
}

func isValidActivityType(t string) bool {
	switch t {
	case constants.ActivityTypeEmail, constants.ActivityTypeCall,
		constants.ActivityTypeMeeting, constants.ActivityTypeNote,
		constants.ActivityTypeTicket:
		return true
	}
	return false
}

func isValidSentiment(s string) bool {
	switch s {
	case constants.SentimentPositive, constants.SentimentNeutral, constants.SentimentNegative:
		return true
	}
	return false
}
