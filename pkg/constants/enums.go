package constants

// Invoice status lifecycle
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusVoid    = "void"
)

// Order status lifecycle (purchase and sales orders)
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusReceived  = "received"  // purchase orders
	OrderStatusFulfilled = "fulfilled" // sales orders
	OrderStatusCancelled = "cancelled"
)

// Subscription status
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

// Production order status lifecycle
const (
	ProductionStatusPlanned    = "planned"
	ProductionStatusInProgress = "in_progress"
	ProductionStatusCompleted  = "completed"
	ProductionStatusCancelled  = "cancelled"
)

// Task status
const (
	TaskStatusOpen = "open"
	TaskStatusDone = "done"
)

// Activity types recorded against contacts
const (
	ActivityTypeEmail   = "email"
	ActivityTypeCall    = "call"
	ActivityTypeMeeting = "meeting"
	ActivityTypeNote    = "note"
	ActivityTypeTicket  = "support_ticket"
)

// Activity sentiment
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Worker intervals (seconds)
const (
	RecurringCheckInterval = 60
)
