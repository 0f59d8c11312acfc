package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

func TestCheckEmailExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	email := "test@example.com"
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)", constants.TableUser, constants.FieldEmail)

	// Test Case 1: User exists
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(email).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.CheckEmailExists(context.Background(), email)
	assert.NoError(t, err)
	assert.True(t, exists)

	// Test Case 2: User does not exist
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("nonexistent@example.com").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = repo.CheckEmailExists(context.Background(), "nonexistent@example.com")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestInsertUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	now := time.Now()
	u := &models.User{
		ID:           "user-1",
		Name:         "Jane Admin",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         constants.RoleAdmin,
		IsActive:     true,
		CreatedDate:  now,
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, password_hash, role, is_active, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, constants.TableUser)
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Insert(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	now := time.Now()
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, is_active, created_date, last_login
		FROM %s WHERE %s = ?`, constants.TableUser, constants.FieldEmail)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "is_active", "created_date", "last_login"}).
		AddRow("user-1", "Jane Admin", "jane@example.com", "$2a$10$hash", constants.RoleAdmin, true, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("jane@example.com").WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "jane@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, constants.RoleAdmin, u.Role)
	assert.Nil(t, u.LastLogin)
}
