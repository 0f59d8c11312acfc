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

// EmployeeRepository persists HR records.
type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, email, department, position,
	hired_at, terminated_at, created_date, last_modified_date`

func (r *EmployeeRepository) Insert(ctx context.Context, e *models.Employee) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		constants.TableEmployee, employeeColumns)
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position,
		e.HiredAt, timePtrValue(e.TerminatedAt), e.CreatedDate, e.ModifiedDate)
	return err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", employeeColumns, constants.TableEmployee, constants.FieldID)

	var e models.Employee
	var terminatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
		&e.HiredAt, &terminatedAt, &e.CreatedDate, &e.ModifiedDate)
	if err != nil {
		return nil, err
	}
	e.TerminatedAt = nullTimePtr(terminatedAt)
	return &e, nil
}

func (r *EmployeeRepository) FindAll(ctx context.Context, department string, limit, offset int) ([]*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", employeeColumns, constants.TableEmployee)
	args := []interface{}{}
	if department != "" {
		query += " WHERE department = ?"
		args = append(args, department)
	}
	query += " ORDER BY last_name, first_name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0)
	for rows.Next() {
		var e models.Employee
		var terminatedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
			&e.HiredAt, &terminatedAt, &e.CreatedDate, &e.ModifiedDate); err != nil {
			return nil, err
		}
		e.TerminatedAt = nullTimePtr(terminatedAt)
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
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
		constants.TableEmployee, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableEmployee, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// HeadcountByDepartment returns active-employee counts per department.
func (r *EmployeeRepository) HeadcountByDepartment(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT department, COUNT(*) FROM %s
		WHERE terminated_at IS NULL
		GROUP BY department`, constants.TableEmployee)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var dept string
		var n int
		if err := rows.Scan(&dept, &n); err != nil {
			return nil, err
		}
		counts[dept] = n
	}
	return counts, rows.Err()
}
