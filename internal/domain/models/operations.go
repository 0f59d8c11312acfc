package models

import "time"

// Employee is an HR record.
type Employee struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Department   string     `json:"department,omitempty"`
	Position     string     `json:"position,omitempty"`
	HiredAt      time.Time  `json:"hired_at"`
	TerminatedAt *time.Time `json:"terminated_at,omitempty"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedDate time.Time  `json:"last_modified_date"`
}

// ProductionOrder schedules manufacture of a product.
type ProductionOrder struct {
	ID           string               `json:"id"`
	Number       string               `json:"number"`
	ProductID    string               `json:"product_id"`
	Quantity     float64              `json:"quantity"`
	Status       string               `json:"status"`
	MaterialCost float64              `json:"material_cost"`
	Materials    []ProductionMaterial `json:"materials,omitempty"`
	CreatedDate  time.Time            `json:"created_date"`
	ModifiedDate time.Time            `json:"last_modified_date"`
}

// ProductionMaterial is one component consumed by a production order.
type ProductionMaterial struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

// Project groups tasks for the project-management module.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CompanyID    string    `json:"company_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"last_modified_date"`
}

// Task is one unit of project work.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedDate time.Time  `json:"created_date"`
}

// ProjectProgress is the task completion rollup for one project.
type ProjectProgress struct {
	ProjectID     string  `json:"project_id"`
	TotalTasks    int     `json:"total_tasks"`
	DoneTasks     int     `json:"done_tasks"`
	CompletionPct float64 `json:"completion_pct"`
}
