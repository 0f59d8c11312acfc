package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/auth"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/utils"
)

// AuthService handles authentication and user management. Sessions are
// stateless JWTs; there is no server-side session table.
type AuthService struct {
	users *persistence.UserRepository
}

func NewAuthService(users *persistence.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string           `json:"token"`
	User      auth.UserSession `json:"user"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Login authenticates a user and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == sql.ErrNoRows {
		log.Printf("⚠️ Login failed for %s: user not found", email)
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}
	if err != nil {
		return nil, errors.NewPersistenceError("login", err)
	}

	if !user.IsActive {
		return nil, errors.NewUnauthorizedError("Account is deactivated")
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		log.Printf("⚠️ Login failed for %s: invalid password", email)
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	session := auth.UserSession{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}

	token, err := auth.GenerateToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode issued token: %w", err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("⚠️ Failed to update last login for %s: %v", user.ID, err)
	}

	return &LoginResult{
		Token:     token,
		User:      session,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CreateUserRequest carries the fields for user provisioning.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// CreateUser provisions a new account. Admin only (enforced at the
// transport layer).
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !auth.IsValidEmail(email) {
		return nil, errors.NewValidationError("email", "Invalid email address")
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = constants.RoleStandard
	}
	if !constants.IsValidRole(role) {
		return nil, errors.NewValidationError("role", "Unknown role")
	}

	exists, err := s.users.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, errors.NewPersistenceError("create user", err)
	}
	if exists {
		return nil, errors.NewConflictError("User", "email", email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           utils.GenerateID(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedDate:  time.Now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, errors.NewPersistenceError("create user", err)
	}

	log.Printf("👤 User created: %s (%s)", user.Email, user.Role)
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get user", err)
	}
	return user, nil
}

func (s *AuthService) GetUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("list users", err)
	}
	return users, nil
}

// UpdateUserRequest carries optional fields for a partial update.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (s *AuthService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		if !constants.IsValidRole(*req.Role) {
			return errors.NewValidationError("role", "Unknown role")
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.users.Update(ctx, id, updates); err != nil {
		return errors.NewPersistenceError("update user", err)
	}
	return nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete user", err)
	}
	return nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return errors.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return errors.NewPersistenceError("change password", err)
	}

	log.Printf("🔐 Password changed for user: %s", userID)
	return nil
}
