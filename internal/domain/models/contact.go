package models

import "time"

// Company is an organization contacts belong to.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry,omitempty"`
	Website      string    `json:"website,omitempty"`
	AnnualValue  float64   `json:"annual_value"`
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"last_modified_date"`
}

// Contact is a person tracked by the CRM module.
type Contact struct {
	ID                string    `json:"id"`
	CompanyID         string    `json:"company_id,omitempty"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Title             string    `json:"title,omitempty"`
	ResponseRate      float64   `json:"response_rate"`      // [0, 1]
	ContentEngagement float64   `json:"content_engagement"` // [0, 1]
	CreatedDate       time.Time `json:"created_date"`
	ModifiedDate      time.Time `json:"last_modified_date"`
}

// Activity is one interaction recorded against a contact.
type Activity struct {
	ID          string    `json:"id"`
	ContactID   string    `json:"contact_id"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject,omitempty"`
	Sentiment   string    `json:"sentiment,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedDate time.Time `json:"created_date"`
}

// EngagementSignals are the aggregated inputs for contact scoring,
// computed from stored activity rows.
type EngagementSignals struct {
	ActivityCount     int        `json:"activity_count"`
	NegativeSentiment int        `json:"negative_sentiment_count"`
	SupportTickets    int        `json:"support_ticket_count"`
	LastActivityAt    *time.Time `json:"last_activity_at,omitempty"`
}
