package models

import "time"

// Subscription is a recurring product engagement for a company.
type Subscription struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	ProductName  string     `json:"product_name"`
	MonthlyPrice float64    `json:"monthly_price"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedDate time.Time  `json:"last_modified_date"`
}

// SubscriptionMetrics summarizes the module for dashboards.
type SubscriptionMetrics struct {
	ActiveCount int     `json:"active_count"`
	MRR         float64 `json:"mrr"`
	ChurnRate   float64 `json:"churn_rate"`
}
