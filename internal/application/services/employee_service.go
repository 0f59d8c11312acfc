package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/auth"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/utils"
)

// EmployeeService owns HR records.
type EmployeeService struct {
	employees *persistence.EmployeeRepository
}

func NewEmployeeService(employees *persistence.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

type EmployeeRequest struct {
	FirstName  string    `json:"first_name" binding:"required"`
	LastName   string    `json:"last_name" binding:"required"`
	Email      string    `json:"email" binding:"required"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	HiredAt    time.Time `json:"hired_at"`
}

func (s *EmployeeService) Hire(ctx context.Context, req EmployeeRequest) (*models.Employee, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !auth.IsValidEmail(email) {
		return nil, errors.NewValidationError("email", "Invalid email address")
	}

	hiredAt := req.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now()
	}

	now := time.Now()
	employee := &models.Employee{
		ID:           utils.GenerateID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Department:   req.Department,
		Position:     req.Position,
		HiredAt:      hiredAt,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.employees.Insert(ctx, employee); err != nil {
		return nil, errors.NewPersistenceError("hire employee", err)
	}
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Employee", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get employee", err)
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context, department string, limit, offset int) ([]*models.Employee, error) {
	employees, err := s.employees.FindAll(ctx, department, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list employees", err)
	}
	return employees, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	filtered, err := filterUpdates(updates, "first_name", "last_name", "email", "department", "position")
	if err != nil {
		return err
	}
	if err := s.employees.Update(ctx, id, filtered); err != nil {
		return errors.NewPersistenceError("update employee", err)
	}
	return nil
}

// Terminate marks an employee as departed; the record is kept.
func (s *EmployeeService) Terminate(ctx context.Context, id string) error {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if employee.TerminatedAt != nil {
		return errors.NewValidationError("id", "Employee is already terminated")
	}
	if err := s.employees.Update(ctx, id, map[string]interface{}{"terminated_at": time.Now()}); err != nil {
		return errors.NewPersistenceError("terminate employee", err)
	}
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete employee", err)
	}
	return nil
}

// Headcount reports active employees per department.
func (s *EmployeeService) Headcount(ctx context.Context) (map[string]int, error) {
	counts, err := s.employees.HeadcountByDepartment(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("headcount", err)
	}
	return counts, nil
}
