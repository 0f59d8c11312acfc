package models

import "time"

// Product is a sellable or consumable item.
type Product struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	UnitCost     float64   `json:"unit_cost"`
	UnitPrice    float64   `json:"unit_price"`
	AnnualDemand float64   `json:"annual_demand"`
	LeadTimeDays float64   `json:"lead_time_days"`
	SafetyStock  float64   `json:"safety_stock"`
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"last_modified_date"`
}

// StockLevel tracks on-hand quantity per product and location.
type StockLevel struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Location     string    `json:"location"`
	OnHand       float64   `json:"on_hand"`
	ModifiedDate time.Time `json:"last_modified_date"`
}

// ReorderAdvice pairs a product with its computed reorder point.
type ReorderAdvice struct {
	ProductID    string  `json:"product_id"`
	SKU          string  `json:"sku"`
	OnHand       float64 `json:"on_hand"`
	ReorderPoint float64 `json:"reorder_point"`
	BelowPoint   bool    `json:"below_point"`
}
