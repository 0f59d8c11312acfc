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

// ProjectRepository persists projects and their tasks.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, company_id, description, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?)`, constants.TableProject)
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.CompanyID, p.Description, p.CreatedDate, p.ModifiedDate)
	return err
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, name, company_id, description, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableProject, constants.FieldID)

	var p models.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CompanyID, &p.Description, &p.CreatedDate, &p.ModifiedDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, name, company_id, description, created_date, last_modified_date
		FROM %s ORDER BY %s DESC LIMIT ? OFFSET ?`, constants.TableProject, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CompanyID, &p.Description, &p.CreatedDate, &p.ModifiedDate); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
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
		constants.TableProject, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes the project and its tasks.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE project_id = ?", constants.TableTask), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableProject, constants.FieldID), id); err != nil {
		return err
	}

	return tx.Commit()
}

// ---- tasks ----

func (r *ProjectRepository) InsertTask(ctx context.Context, t *models.Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, title, status, assignee_id, due_date, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableTask)
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Status, t.AssigneeID, timePtrValue(t.DueDate), t.CreatedDate)
	return err
}

func (r *ProjectRepository) FindTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, title, status, assignee_id, due_date, created_date
		FROM %s WHERE project_id = ? ORDER BY %s`, constants.TableTask, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var t models.Task
		var assignee sql.NullString
		var dueDate sql.NullTime
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &assignee, &dueDate, &t.CreatedDate); err != nil {
			return nil, err
		}
		t.AssigneeID = assignee.String
		t.DueDate = nullTimePtr(dueDate)
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (r *ProjectRepository) UpdateTaskStatus(ctx context.Context, taskID, status string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		constants.TableTask, constants.FieldStatus, constants.FieldID)
	res, err := r.db.ExecContext(ctx, query, status, taskID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TaskCounts returns total and done task counts for a project in one query.
func (r *ProjectRepository) TaskCounts(ctx context.Context, projectID string) (int, int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN %s = ? THEN 1 ELSE 0 END), 0)
		FROM %s WHERE project_id = ?`, constants.FieldStatus, constants.TableTask)

	var total, done int
	err := r.db.QueryRowContext(ctx, query, constants.TaskStatusDone, projectID).Scan(&total, &done)
	return total, done, err
}
