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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)", constants.TableUser, constants.FieldEmail)
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, password_hash, role, is_active, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableUser)
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedDate)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, is_active, created_date, last_login
		FROM %s WHERE %s = ?`, constants.TableUser, constants.FieldEmail)

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, is_active, created_date, last_login
		FROM %s WHERE %s = ?`, constants.TableUser, constants.FieldID)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedDate, &lastLogin); err != nil {
		return nil, err
	}
	u.LastLogin = nullTimePtr(lastLogin)
	return &u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, is_active, created_date, last_login
		FROM %s ORDER BY %s DESC`, constants.TableUser, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedDate, &lastLogin); err != nil {
			return nil, err
		}
		u.LastLogin = nullTimePtr(lastLogin)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// Update applies a partial column update and refreshes last_modified_date.
func (r *UserRepository) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}

	for k, v := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", constants.TableUser, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, userID)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET last_login = ? WHERE %s = ?", constants.TableUser, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, time.Now(), userID)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableUser, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
